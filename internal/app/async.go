package app

import (
	"context"
	"time"

	"parkendd/internal/domain"
)

// Result is the single value delivered by the classified async fetches.
type Result[T any] struct {
	Value T
	Err   error
}

func async[T any](fn func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// MetadataAsync delivers exactly one Result, then closes.
func (s *Service) MetadataAsync(ctx context.Context) <-chan Result[domain.CityMetadata] {
	return async(func() (domain.CityMetadata, error) { return s.Metadata(ctx) })
}

// ParkingLotsAsync delivers exactly one Result, then closes.
func (s *Service) ParkingLotsAsync(ctx context.Context) <-chan Result[[]domain.ParkingLot] {
	return async(func() ([]domain.ParkingLot, error) { return s.ParkingLots(ctx) })
}

// ForecastAsync delivers the payload (nil after a failure), then closes.
func (s *Service) ForecastAsync(ctx context.Context, lotID string, from, to time.Time) <-chan domain.ForecastPayload {
	ch := make(chan domain.ForecastPayload, 1)
	go func() {
		defer close(ch)
		ch <- s.Forecast(ctx, lotID, from, to)
	}()
	return ch
}

// NotificationAsync delivers a notification only when it should be shown.
// Otherwise the channel is closed without a value.
func (s *Service) NotificationAsync(ctx context.Context) <-chan domain.Notification {
	ch := make(chan domain.Notification, 1)
	go func() {
		defer close(ch)
		if n, ok := s.Notification(ctx); ok {
			ch <- n
		}
	}()
	return ch
}
