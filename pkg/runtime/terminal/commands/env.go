package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/yjk624/shinryeong/pkg/adapters"
	"github.com/yjk624/shinryeong/pkg/models/api"
	"github.com/yjk624/shinryeong/pkg/models/domain"
	"github.com/yjk624/shinryeong/pkg/runtime/app"
	"github.com/yjk624/shinryeong/pkg/runtime/terminal/export"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
)

// Env is what every command needs from the CLI.
type Env struct {
	// App returns the wired services and a context carrying the logger.
	App       func(ctx context.Context) (context.Context, *app.App, error)
	Converter calendar.Converter
	Reporter  *export.Reporter
}

type birthFlags struct {
	name   string
	date   string
	time   string
	lunar  bool
	leap   bool
	gender string
	place  string
}

// register adds the subject flags, each prefixed with prefix ("" or "a-").
func (b *birthFlags) register(fs *pflag.FlagSet, prefix, who string) {
	fs.StringVar(&b.name, prefix+"name", "", "Name of "+who)
	fs.StringVar(&b.date, prefix+"date", "", "Birth date of "+who+" (YYYY-MM-DD)")
	fs.StringVar(&b.time, prefix+"time", "", "Birth time of "+who+" (HH:MM, local clock)")
	fs.BoolVar(&b.lunar, prefix+"lunar", false, "The birth date of "+who+" is a lunar date")
	fs.BoolVar(&b.leap, prefix+"leap", false, "The lunar birth month of "+who+" is a leap month")
	fs.StringVar(&b.gender, prefix+"gender", "", "Gender of "+who+" (male|female)")
	fs.StringVar(&b.place, prefix+"place", "", "Birth place of "+who)
}

func (b *birthFlags) input() (domain.BirthInput, error) {
	req := api.BirthRequest{
		Name:      b.name,
		Date:      b.date,
		Time:      b.time,
		LeapMonth: b.leap,
		Gender:    b.gender,
		Place:     b.place,
	}
	if b.lunar {
		req.Calendar = "lunar"
	}
	return adapters.MapBirthRequestApiToDomain(req)
}
