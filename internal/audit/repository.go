package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/db"
)

type Repository interface {
	// Window returns up to limit entries starting at offset, newest first.
	Window(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error)
	// All returns every entry matching filters, oldest first.
	All(ctx context.Context, filters TimelineFilters) ([]Entry, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectEntries = `SELECT a.id, a.actor_id, COALESCE(u.nome, ''), a.action, a.entity, a.entity_id, a.meta, a.occurred_at
	FROM audit_logs a LEFT JOIN usuarios u ON u.id = a.actor_id`

func timelineWhere(f TimelineFilters) *db.Where {
	where := &db.Where{}
	if !f.From.IsZero() {
		where.Add("a.occurred_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		where.Add("a.occurred_at < ?", f.To)
	}
	if f.ActorID != nil {
		where.Add("a.actor_id = ?", *f.ActorID)
	}
	if f.Entity != "" {
		where.Add("a.entity = ?", f.Entity)
	}
	if f.Action != "" {
		where.Add("a.action = ?", f.Action)
	}
	return where
}

func (r *repository) Window(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error) {
	where := timelineWhere(filters)
	page, args := where.Paginate(limit, offset)
	return r.query(ctx, selectEntries+where.SQL()+` ORDER BY a.occurred_at DESC, a.id DESC`+page, args...)
}

func (r *repository) All(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	where := timelineWhere(filters)
	return r.query(ctx, selectEntries+where.SQL()+` ORDER BY a.occurred_at, a.id`, where.Args()...)
}

func (r *repository) query(ctx context.Context, sql string, args ...any) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("audit timeline: %w", err)
	}
	defer rows.Close()
	out := []Entry{}
	for rows.Next() {
		var (
			e    Entry
			meta []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action, &e.Entity, &e.EntityID, &meta, &e.OccurredAt); err != nil {
			return nil, err
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Meta); err != nil {
				return nil, fmt.Errorf("audit meta %d: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
