package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"parkendd/internal/storage/memory"
)

func TestState_EmptyInitially(t *testing.T) {
	s := memory.NewState()
	seen, err := s.SeenNotifications(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("expected empty seen list, got %v", seen)
	}
	skip, _ := s.SkipNoDataLots(context.Background())
	if skip {
		t.Fatalf("skip-nodata should default to false")
	}
}

func TestState_MarkSeenOnce(t *testing.T) {
	ctx := context.Background()
	s := memory.NewState()

	if added, _ := s.MarkNotificationSeen(ctx, 42); !added {
		t.Fatalf("first mark should add")
	}
	if added, _ := s.MarkNotificationSeen(ctx, 42); added {
		t.Fatalf("second mark should not add")
	}
	seen, _ := s.SeenNotifications(ctx)
	if len(seen) != 1 || seen[0] != 42 {
		t.Fatalf("unexpected seen list %v", seen)
	}
}

func TestState_ConcurrentMarkSingleWinner(t *testing.T) {
	ctx := context.Background()
	s := memory.NewState()

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if added, _ := s.MarkNotificationSeen(ctx, 7); added {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
}

func TestState_SeenListIsACopy(t *testing.T) {
	ctx := context.Background()
	s := memory.NewState()
	_, _ = s.MarkNotificationSeen(ctx, 1)

	seen, _ := s.SeenNotifications(ctx)
	seen[0] = 99

	again, _ := s.SeenNotifications(ctx)
	if again[0] != 1 {
		t.Fatalf("store was mutated through returned slice: %v", again)
	}
}
