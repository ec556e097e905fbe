package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"parkendd/internal/adapters/observability"
	"parkendd/internal/domain"
)

// Service fetches from the parking API and normalizes every response.
type Service struct {
	api     domain.ParkingAPI
	state   domain.StateStore
	gate    *NotificationGate
	city    string
	version string
}

func NewService(api domain.ParkingAPI, state domain.StateStore, city, supportedVersion string) *Service {
	return &Service{
		api:     api,
		state:   state,
		gate:    NewNotificationGate(state),
		city:    city,
		version: supportedVersion,
	}
}

// Metadata returns the supported cities. On any failure the mapping is empty
// and err wraps ErrRequest, ErrServer or ErrIncompatibleAPI.
func (s *Service) Metadata(ctx context.Context) (domain.CityMetadata, error) {
	raw, err := s.api.GetMetadata(ctx)
	if err != nil {
		s.fail("metadata", err)
		return domain.CityMetadata{Cities: map[string]string{}}, err
	}

	version, cities := mapMetadata(raw)
	if !version.ok() || version.Value != s.version {
		log.Error().
			Str("found", version.Value).
			Str("supported", s.version).
			Msg("incompatible api version")
		observability.ObserveFailure("metadata", domain.ErrorKind(domain.ErrIncompatibleAPI))
		return domain.CityMetadata{APIVersion: version.Value, Cities: map[string]string{}}, domain.ErrIncompatibleAPI
	}
	return domain.CityMetadata{APIVersion: version.Value, Cities: cities}, nil
}

// ParkingLots returns the lots of the configured city in payload order.
func (s *Service) ParkingLots(ctx context.Context) ([]domain.ParkingLot, error) {
	raw, err := s.api.GetCityLots(ctx, s.city)
	if err != nil {
		s.fail("lots", err)
		return []domain.ParkingLot{}, err
	}

	skip, err := s.state.SkipNoDataLots(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("reading skip-nodata preference failed; keeping all lots")
		skip = false
	}
	lots, skipped := mapLots(raw, skip)
	observability.ObserveLots(len(lots), skipped)
	log.Debug().Str("city", s.city).Int("lots", len(lots)).Int("skipped", skipped).Msg("lots parsed")
	return lots, nil
}

// Forecast returns the raw timespan payload for lotID over [from, to), or nil
// if the fetch failed. Failures are logged only.
func (s *Service) Forecast(ctx context.Context, lotID string, from, to time.Time) domain.ForecastPayload {
	raw, err := s.api.GetTimespan(ctx, s.city, lotID, from, to)
	if err != nil {
		log.Warn().Err(err).Str("lot", lotID).Msg("forecast request failed")
		return nil
	}
	log.Debug().Str("lot", lotID).Int("bytes", len(raw)).Msg("forecast received")
	return domain.ForecastPayload(raw)
}

// Notification returns the advisory notification when it should be shown now.
// ok is false when there is nothing to show, including on any failure.
func (s *Service) Notification(ctx context.Context) (n domain.Notification, ok bool) {
	raw, err := s.api.GetNotification(ctx)
	if err != nil {
		return domain.Notification{}, false
	}
	n = mapNotification(raw)
	if !s.gate.Admit(ctx, n) {
		return domain.Notification{}, false
	}
	return n, true
}

// SkipNoDataLots exposes the stored preference to settings collaborators.
func (s *Service) SkipNoDataLots(ctx context.Context) (bool, error) {
	return s.state.SkipNoDataLots(ctx)
}

func (s *Service) SetSkipNoDataLots(ctx context.Context, skip bool) error {
	return s.state.SetSkipNoDataLots(ctx, skip)
}

func (s *Service) fail(op string, err error) {
	kind := domain.ErrorKind(err)
	observability.ObserveFailure(op, kind)
	log.Error().Err(err).Str("op", op).Str("kind", kind).Msg("fetch failed")
}
