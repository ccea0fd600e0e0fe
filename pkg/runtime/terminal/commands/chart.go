package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ChartCmd struct {
	env   Env
	birth birthFlags
	json  bool
}

func NewChartCmd(env Env) *cobra.Command {
	cc := &ChartCmd{env: env}
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute and interpret the Four Pillars chart of one person",
		RunE:  cc.run,
	}

	cc.birth.register(cmd.Flags(), "", "the subject")
	cmd.Flags().BoolVar(&cc.json, "json", false, "Print the report as JSON")

	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	_ = cmd.MarkFlagRequired("gender")
	_ = cmd.MarkFlagRequired("place")

	return cmd
}

func (cc *ChartCmd) run(cmd *cobra.Command, _ []string) error {
	input, err := cc.birth.input()
	if err != nil {
		return err
	}

	ctx, services, err := cc.env.App(cmd.Context())
	if err != nil {
		return err
	}

	report, err := services.Assembler.BuildSingle(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to build chart: %w", err)
	}

	if cc.json {
		return cc.env.Reporter.HandleJSON(report)
	}
	return cc.env.Reporter.Handle(report)
}
