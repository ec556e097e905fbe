package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ParkingAPI is the transport half of the client. Every method issues exactly
// one GET and returns the raw JSON body, or an error wrapping ErrRequest or
// ErrServer.
type ParkingAPI interface {
	GetMetadata(ctx context.Context) (json.RawMessage, error)
	GetCityLots(ctx context.Context, city string) (json.RawMessage, error)
	GetTimespan(ctx context.Context, city, lotID string, from, to time.Time) (json.RawMessage, error)
	GetNotification(ctx context.Context) (json.RawMessage, error)
}

// StateStore holds the process-wide client state. MarkNotificationSeen must be
// an atomic compare-and-append: it reports true only for the one caller that
// actually added id.
type StateStore interface {
	SeenNotifications(ctx context.Context) ([]int, error)
	MarkNotificationSeen(ctx context.Context, id int) (bool, error)
	SkipNoDataLots(ctx context.Context) (bool, error)
	SetSkipNoDataLots(ctx context.Context, skip bool) error
}
