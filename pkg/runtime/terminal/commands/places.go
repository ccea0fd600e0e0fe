package commands

import (
	"github.com/spf13/cobra"
)

func NewPlacesCmd(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "places",
		Short: "List the place names resolvable without a network lookup",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, services, err := env.App(cmd.Context())
			if err != nil {
				return err
			}
			return env.Reporter.HandleList(services.Gazetteer.Names())
		},
	}
}
