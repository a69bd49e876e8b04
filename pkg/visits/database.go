package visits

import (
	"context"
	"time"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// DBCounter keeps counts in the session_visits table.
type DBCounter struct {
	db *bun.DB
}

func NewDBCounter(db *bun.DB) *DBCounter {
	return &DBCounter{db}
}

func (dc *DBCounter) Increment(ctx context.Context, sessionID string) (int, error) {
	if sessionID == "" {
		return 0, errcodes.Unauthorized("Session required")
	}

	var count int
	err := dc.db.NewRaw(`
		INSERT INTO session_visits (session_id, count, updated_at) VALUES (?, 1, ?)
		ON CONFLICT (session_id) DO UPDATE SET count = count + 1, updated_at = excluded.updated_at
		RETURNING count`,
		sessionID, time.Now(),
	).Scan(ctx, &count)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// Prune deletes counts of sessions idle since before the cutoff.
func (dc *DBCounter) Prune(ctx context.Context, before time.Time) (int, error) {
	res, err := dc.db.NewDelete().
		Model((*models.SessionVisit)(nil)).
		Where("sv.updated_at < ?", before).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return int(n), errors.WithStack(err)
}

func (dc *DBCounter) Close() error {
	return nil
}
