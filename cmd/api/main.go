package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "parkendd/internal/adapters/http_server"
	"parkendd/internal/adapters/observability"
	"parkendd/internal/adapters/parkendd"
	"parkendd/internal/app"
	"parkendd/internal/shared"
	"parkendd/internal/storage"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// state
	state, closeState, err := storage.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("state store unavailable")
	}
	defer closeState()

	// deps
	client, err := parkendd.New(cfg.BaseURL, cfg.NotificationURL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize parking API client")
	}
	svc := app.NewService(client, state, cfg.City, shared.SupportedAPIVersion)

	// http
	srv := server.New(cfg.APIRPS)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Str("city", cfg.City).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
