package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"parkendd/internal/adapters/observability"
	"parkendd/internal/adapters/parkendd"
	"parkendd/internal/app"
	"parkendd/internal/domain"
	"parkendd/internal/shared"
	"parkendd/internal/storage"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.BaseURL).
		Str("city", cfg.City).
		Str("state", cfg.StateBackend).
		Msg("fetch starting")

	state, closeState, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("state store unavailable")
	}
	defer closeState()

	client, err := parkendd.New(cfg.BaseURL, cfg.NotificationURL, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize parking API client")
	}
	svc := app.NewService(client, state, cfg.City, shared.SupportedAPIVersion)

	// the advisory notification is independent of the classified fetches
	var notif <-chan domain.Notification
	if cfg.NotificationURL != "" {
		notif = svc.NotificationAsync(ctx)
	}

	var (
		md   domain.CityMetadata
		lots []domain.ParkingLot
	)
	// plain group: a failing fetch does not cancel the other one
	var g errgroup.Group
	g.Go(func() error {
		var err error
		md, err = svc.Metadata(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		lots, err = svc.ParkingLots(ctx)
		return err
	})
	failed := g.Wait()

	if failed == nil {
		log.Info().Str("api_version", md.APIVersion).Int("cities", len(md.Cities)).Msg("metadata ok")
		for _, l := range lots {
			tier := domain.ColorForRatio(l.OccupiedRatio())
			log.Info().
				Str("lot", l.Name).
				Str("state", string(l.State)).
				Int("free", l.Free).
				Int("count", l.Count).
				Str("tier", string(tier)).
				Msg("lot")
		}
	}

	if notif != nil {
		if n, ok := <-notif; ok {
			log.Info().Int("id", n.ID).Str("title", n.Title).Str("text", n.Text).Msg("notification")
		}
	}

	if failed != nil {
		log.Error().Str("kind", domain.ErrorKind(failed)).Err(failed).Msg("fetch failed")
		closeState()
		os.Exit(1)
	}
	log.Info().Int("lots", len(lots)).Msg("fetch completed")
}
