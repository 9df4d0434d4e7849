package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// DefaultIdempotencyRetention is how long a key blocks a repeated request.
const DefaultIdempotencyRetention = 24 * time.Hour

// Execer is the subset of pgxpool.Pool the idempotency store needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// IdempotencyStore persists processed keys. A key older than the retention
// window no longer counts as a duplicate and is reclaimed on reuse.
type IdempotencyStore struct {
	db        Execer
	retention time.Duration
	now       func() time.Time
}

// NewIdempotencyStore constructs the store. A non-positive retention falls
// back to DefaultIdempotencyRetention.
func NewIdempotencyStore(db Execer, retention time.Duration) *IdempotencyStore {
	if retention <= 0 {
		retention = DefaultIdempotencyRetention
	}
	return &IdempotencyStore{db: db, retention: retention, now: time.Now}
}

// ErrIdempotencyConflict indicates a duplicate key.
var ErrIdempotencyConflict = &Error{Kind: ErrConflict, Code: CodeConflict, Message: "requisição já processada para esta Idempotency-Key"}

const reserveKeySQL = `INSERT INTO idempotency_keys (key, module, created_at) VALUES ($1, $2, $3)
	ON CONFLICT (key, module) DO UPDATE SET created_at = EXCLUDED.created_at
	WHERE idempotency_keys.created_at < $4`

// CheckAndInsert ensures key uniqueness per module within the retention window.
func (s *IdempotencyStore) CheckAndInsert(ctx context.Context, key, module string) error {
	if s == nil {
		return errors.New("idempotency store not initialised")
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	if module == "" {
		return errors.New("idempotency module required")
	}
	now := s.now()
	tag, err := s.db.Exec(ctx, reserveKeySQL, key, module, now, now.Add(-s.retention))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrIdempotencyConflict
	}
	return nil
}

// Cleanup removes keys older than the retention window and returns how many
// were deleted.
func (s *IdempotencyStore) Cleanup(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, nil
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, s.now().Add(-s.retention))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// RunCleanup calls Cleanup every interval until ctx is cancelled.
func (s *IdempotencyStore) RunCleanup(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if s == nil || interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	for {
		removed, err := s.Cleanup(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			logger.Warn("idempotency cleanup", slog.Any("error", err))
		case removed > 0:
			logger.Info("idempotency cleanup", slog.Int64("removed", removed))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// Delete removes a key, typically used to roll back failed processing.
func (s *IdempotencyStore) Delete(ctx context.Context, key, module string) error {
	if s == nil {
		return nil
	}
	if key == "" {
		return errors.New("idempotency key required")
	}
	_, err := s.db.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = $1 AND module = $2`, key, module)
	return err
}
