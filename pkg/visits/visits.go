// Package visits counts how often each login session has opened the catalog
// home page.
package visits

import (
	"context"
	"time"

	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Counter increments and returns the visit count of a session. The first
// call for a session returns 1. Increments are atomic, so concurrent
// requests from one session never lose a visit.
type Counter interface {
	Increment(ctx context.Context, sessionID string) (int, error)
	Close() error
}

// NewCounter builds the counter selected by cfg.SessionStore. ttl is how
// long an idle session's count is kept.
func NewCounter(cfg *config.Config, db *bun.DB, ttl time.Duration) (Counter, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		return NewRedisCounter(cfg.RedisAddr, cfg.RedisPassword, ttl)
	case config.SessionStoreDatabase, "":
		return NewDBCounter(db), nil
	default:
		return nil, errors.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
