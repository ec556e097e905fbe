package redisad

import (
	"context"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"parkendd/internal/adapters/observability"
)

const (
	seenKey = "parkendd:seen_notifications"
	skipKey = "parkendd:skip_nodata_lots"
)

// State keeps the client state in Redis. Seen ids live in a set, so SADD is
// the atomic compare-and-append.
type State struct{ c *redis.Client }

func New(addr, pass string, db int) *State {
	return &State{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *State) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *State) Close() error { return r.c.Close() }

// SeenNotifications returns the seen ids in ascending order; an absent key is
// an empty list.
func (r *State) SeenNotifications(ctx context.Context) ([]int, error) {
	members, err := r.c.SMembers(ctx, seenKey).Result()
	if err != nil {
		return nil, err
	}
	observability.ObserveState("redis", "read")
	out := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue // not ours
		}
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

func (r *State) MarkNotificationSeen(ctx context.Context, id int) (bool, error) {
	n, err := r.c.SAdd(ctx, seenKey, strconv.Itoa(id)).Result()
	if err != nil {
		return false, err
	}
	if n == 0 {
		observability.ObserveState("redis", "dup")
		return false, nil
	}
	observability.ObserveState("redis", "add")
	return true, nil
}

func (r *State) SkipNoDataLots(ctx context.Context) (bool, error) {
	v, err := r.c.Get(ctx, skipKey).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveState("redis", "read")
	return v == "1", nil
}

func (r *State) SetSkipNoDataLots(ctx context.Context, skip bool) error {
	v := "0"
	if skip {
		v = "1"
	}
	observability.ObserveState("redis", "set")
	return r.c.Set(ctx, skipKey, v, 0).Err()
}
