package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	redisad "parkendd/internal/adapters/redis"
	"parkendd/internal/domain"
	"parkendd/internal/shared"
	"parkendd/internal/storage/memory"
	mysqlstate "parkendd/internal/storage/mysql"
)

// Open returns the state store selected by cfg.StateBackend and a func
// releasing its connections. The skip-nodata seed is applied when set.
func Open(ctx context.Context, cfg shared.Config) (domain.StateStore, func(), error) {
	var (
		st      domain.StateStore
		cleanup = func() {}
	)
	switch cfg.StateBackend {
	case "", "memory":
		st = memory.NewState()
	case "redis":
		r := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := r.Ping(ctx); err != nil {
			_ = r.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		st, cleanup = r, func() { _ = r.Close() }
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db ping: %w", err)
		}
		m := mysqlstate.New(db)
		if err := m.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		st, cleanup = m, func() { _ = db.Close() }
	default:
		return nil, nil, fmt.Errorf("unknown STATE_BACKEND %q", cfg.StateBackend)
	}
	log.Info().Str("backend", cfg.StateBackend).Msg("state store ready")

	if cfg.SkipNoData != nil {
		if err := st.SetSkipNoDataLots(ctx, *cfg.SkipNoData); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("seed skip-nodata: %w", err)
		}
	}
	return st, cleanup, nil
}
