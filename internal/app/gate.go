package app

import (
	"context"
	"slices"

	"parkendd/internal/adapters/observability"
	"parkendd/internal/domain"
)

// NotificationGate decides whether a fetched notification is shown. Each id
// is surfaced at most once per state store.
type NotificationGate struct {
	state domain.StateStore
}

func NewNotificationGate(s domain.StateStore) *NotificationGate {
	return &NotificationGate{state: s}
}

// Admit reports whether n should be shown now and records it as seen if so.
// State errors suppress the notification; nothing is logged.
func (g *NotificationGate) Admit(ctx context.Context, n domain.Notification) bool {
	if !n.Display {
		observability.ObserveNotification("hidden")
		return false
	}
	seen, err := g.state.SeenNotifications(ctx)
	if err != nil {
		observability.ObserveNotification("error")
		return false
	}
	if slices.Contains(seen, n.ID) {
		observability.ObserveNotification("seen")
		return false
	}
	// the append is the arbiter when two fetches race past the check above
	added, err := g.state.MarkNotificationSeen(ctx, n.ID)
	if err != nil {
		observability.ObserveNotification("error")
		return false
	}
	if !added {
		observability.ObserveNotification("seen")
		return false
	}
	observability.ObserveNotification("surfaced")
	return true
}
