package memory

import (
	"context"
	"slices"
	"sync"

	"parkendd/internal/adapters/observability"
)

// State is a concurrency-safe in-process StateStore. Nothing survives a
// restart.
type State struct {
	mu         sync.Mutex
	seen       []int
	skipNoData bool
}

func NewState() *State { return &State{} }

func (s *State) SeenNotifications(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	observability.ObserveState("memory", "read")
	return slices.Clone(s.seen), nil
}

func (s *State) MarkNotificationSeen(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.seen, id) {
		observability.ObserveState("memory", "dup")
		return false, nil
	}
	s.seen = append(s.seen, id)
	observability.ObserveState("memory", "add")
	return true, nil
}

func (s *State) SkipNoDataLots(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipNoData, nil
}

func (s *State) SetSkipNoDataLots(ctx context.Context, skip bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipNoData = skip
	observability.ObserveState("memory", "set")
	return nil
}
