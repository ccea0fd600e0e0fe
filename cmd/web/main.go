package main

import (
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yjk624/shinryeong/pkg/runtime/app"
	"github.com/yjk624/shinryeong/pkg/server"
	"github.com/yjk624/shinryeong/pkg/services/config"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Shinryeong",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the settings file (default is $HOME/.shinryeong/config.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath())
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	zerolog.SetGlobalLevel(cfg.LogLevel())
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	services, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer services.Close(ctx)

	logger.Info().Msgf("Knowledge tables available: %v", services.Knowledge.Available())

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		return fmt.Errorf("missing SERVER_HOST or SERVER_PORT in the environment or .env file")
	}

	api := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Assembler: services.Assembler,
			Converter: services.Converter,
			Places:    services.Gazetteer,
			Logger:    logger,
		},
	})

	return api.Start()
}
