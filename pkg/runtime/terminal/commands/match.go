package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

type MatchCmd struct {
	env  Env
	a, b birthFlags
	json bool
}

func NewMatchCmd(env Env) *cobra.Command {
	mc := &MatchCmd{env: env}
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score the compatibility of two people",
		RunE:  mc.run,
	}

	mc.a.register(cmd.Flags(), "a-", "the first subject")
	mc.b.register(cmd.Flags(), "b-", "the second subject")
	cmd.Flags().BoolVar(&mc.json, "json", false, "Print the report as JSON")

	for _, p := range []string{"a-", "b-"} {
		for _, f := range []string{"date", "time", "gender", "place"} {
			_ = cmd.MarkFlagRequired(p + f)
		}
	}

	return cmd
}

func (mc *MatchCmd) run(cmd *cobra.Command, _ []string) error {
	a, err := mc.a.input()
	if err != nil {
		return fmt.Errorf("first subject: %w", err)
	}
	b, err := mc.b.input()
	if err != nil {
		return fmt.Errorf("second subject: %w", err)
	}

	ctx, services, err := mc.env.App(cmd.Context())
	if err != nil {
		return err
	}

	report, buildErr := services.Assembler.BuildCompatibility(ctx, a, b)
	if report == nil {
		return buildErr
	}

	// the partial report shows which subject failed and why
	if mc.json {
		err = mc.env.Reporter.HandleJSON(report)
	} else {
		err = mc.env.Reporter.Handle(report)
	}
	return errors.Join(buildErr, err)
}
