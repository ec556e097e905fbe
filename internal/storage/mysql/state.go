package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parkendd/internal/adapters/observability"
)

// State keeps the client state in MySQL.
type State struct{ db *sql.DB }

func New(db *sql.DB) *State { return &State{db: db} }

// Migrate creates the state tables if they do not exist.
func (s *State) Migrate(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *State) SeenNotifications(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, listSeenSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, int(id))
	}
	observability.ObserveState("mysql", "read")
	return out, rows.Err()
}

func (s *State) MarkNotificationSeen(ctx context.Context, id int) (bool, error) {
	res, err := s.db.ExecContext(ctx, insertSeenSQL, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		observability.ObserveState("mysql", "dup")
		return false, nil
	}
	observability.ObserveState("mysql", "add")
	return true, nil
}

func (s *State) SkipNoDataLots(ctx context.Context) (bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx, getPreferenceSQL, prefSkipNoData).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveState("mysql", "read")
	return v == "1", nil
}

func (s *State) SetSkipNoDataLots(ctx context.Context, skip bool) error {
	v := "0"
	if skip {
		v = "1"
	}
	_, err := s.db.ExecContext(ctx, upsertPreferenceSQL, prefSkipNoData, v)
	if err == nil {
		observability.ObserveState("mysql", "set")
	}
	return err
}
