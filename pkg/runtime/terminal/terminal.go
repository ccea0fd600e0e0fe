package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yjk624/shinryeong/pkg/runtime/app"
	"github.com/yjk624/shinryeong/pkg/runtime/terminal/commands"
	"github.com/yjk624/shinryeong/pkg/runtime/terminal/export"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
	"github.com/yjk624/shinryeong/pkg/services/config"
)

// CLI represents the command-line interface
type CLI struct {
	reporter   *export.Reporter
	logOutput  io.Writer
	rootCmd    *cobra.Command
	configPath string
	logLevel   string

	once   sync.Once
	logger zerolog.Logger
	app    *app.App
	err    error
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// LogOutput receives the structured log (default: stderr)
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		reporter:  export.NewReporter(opts.Output),
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// ExecuteContext runs the command tree with args instead of os.Args.
func (cli *CLI) ExecuteContext(ctx context.Context, args ...string) error {
	cli.rootCmd.SetArgs(args)
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "shinryeong",
		Short:         "Four Pillars charts, analysis and compatibility",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "",
		"Path to the settings file (default is $HOME/.shinryeong/config.yaml)")
	cmd.PersistentFlags().StringVar(&cli.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	env := commands.Env{
		App:       cli.services,
		Converter: calendar.NewConverter(),
		Reporter:  cli.reporter,
	}
	cmd.AddCommand(commands.NewChartCmd(env))
	cmd.AddCommand(commands.NewMatchCmd(env))
	cmd.AddCommand(commands.NewConvertCmd(env))
	cmd.AddCommand(commands.NewPlacesCmd(env))

	return cmd
}

// services loads the settings and builds the pipeline on first use, so
// commands that do not need it (convert) never touch the knowledge base.
func (cli *CLI) services(ctx context.Context) (context.Context, *app.App, error) {
	cli.once.Do(func() {
		cfg, err := cli.loadConfig()
		if err != nil {
			cli.err = err
			return
		}

		cli.logger = zerolog.New(cli.logOutput).Level(cfg.LogLevel()).With().Timestamp().Logger()
		cli.app, err = app.New(cli.logger.WithContext(ctx), cfg)
		if err != nil {
			cli.err = fmt.Errorf("failed to initialize: %w", err)
		}
	})
	return cli.logger.WithContext(ctx), cli.app, cli.err
}

func (cli *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cli.configPath != "" {
		cfg, err = config.Load(cli.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return nil, err
	}
	if cli.logLevel != "" {
		cfg.Log.Level = cli.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
