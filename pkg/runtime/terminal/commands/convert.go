package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

type ConvertCmd struct {
	env   Env
	date  string
	lunar bool
	solar bool
	leap  bool
}

func NewConvertCmd(env Env) *cobra.Command {
	cc := &ConvertCmd{env: env}
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a date between the solar and lunar calendars",
		RunE:  cc.run,
	}

	cmd.Flags().StringVar(&cc.date, "date", "", "Date to convert (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&cc.lunar, "lunar", false, "The date is lunar; print the solar date")
	cmd.Flags().BoolVar(&cc.solar, "solar", false, "The date is solar; print the lunar date (default)")
	cmd.Flags().BoolVar(&cc.leap, "leap", false, "The lunar month is a leap month")

	_ = cmd.MarkFlagRequired("date")
	cmd.MarkFlagsMutuallyExclusive("lunar", "solar")

	return cmd
}

func (cc *ConvertCmd) run(_ *cobra.Command, _ []string) error {
	date, err := domain.ParseLocalDate(cc.date)
	if err != nil {
		return err
	}

	if cc.lunar {
		solar, err := cc.env.Converter.LunarToSolar(date, cc.leap)
		if err != nil {
			return err
		}
		return cc.env.Reporter.HandleConversion(solar, date, cc.leap)
	}

	if cc.leap {
		return errors.New("--leap only applies to lunar dates")
	}
	lunar, err := cc.env.Converter.SolarToLunar(date)
	if err != nil {
		return err
	}
	return cc.env.Reporter.HandleConversion(date, lunar.Date, lunar.IsLeapMonth)
}
