package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/yjk624/shinryeong/pkg/handlers/chart"
	shinryeongmiddleware "github.com/yjk624/shinryeong/pkg/server/middleware"
	"github.com/yjk624/shinryeong/pkg/services/calendar"
	"github.com/yjk624/shinryeong/pkg/services/report"
)

type WebAPI struct {
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Assembler report.Assembler
	Converter calendar.Converter
	Places    handlers.PlaceLister
	Logger    zerolog.Logger
}

type Config struct {
	Addr string
	// ShutdownTimeout bounds the wait for in-flight requests (default: 10s)
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

// ConfigureRouter mounts the API under /api/v1.
func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	h := handlers.NewHandler(deps.Assembler, deps.Converter, deps.Places)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(shinryeongmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/charts", h.CreateChart)
		r.Post("/compatibility", h.CreateCompatibility)
		r.Get("/calendar/solar", h.LunarToSolar)
		r.Get("/calendar/lunar", h.SolarToLunar)
		r.Get("/places", h.ListPlaces)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	logger := config.Dependencies.Logger
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebAPI{
		logger:          &logger,
		shutdownTimeout: timeout,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           ConfigureRouter(config),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
