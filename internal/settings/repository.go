package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	rootshared "github.com/balcao/balcao/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, key, value string, description *string, actor uuid.UUID) (*Setting, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `chave, valor, COALESCE(descricao, ''), updated_by, updated_at`

func scan(row pgx.Row) (*Setting, error) {
	var s Setting
	if err := row.Scan(&s.Key, &s.Value, &s.Description, &s.UpdatedBy, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context) ([]Setting, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM configuracoes ORDER BY chave`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Setting{}
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, key string) (*Setting, error) {
	s, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM configuracoes WHERE chave = $1`, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(key)
	}
	return s, err
}

// Upsert keeps the stored description when description is nil.
func (r *repository) Upsert(ctx context.Context, key, value string, description *string, actor uuid.UUID) (*Setting, error) {
	s, err := scan(r.pool.QueryRow(ctx, `INSERT INTO configuracoes (chave, valor, descricao, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (chave) DO UPDATE SET
			valor = EXCLUDED.valor,
			descricao = COALESCE(EXCLUDED.descricao, configuracoes.descricao),
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
		RETURNING `+columns, key, value, description, actor))
	if err != nil {
		return nil, fmt.Errorf("upsert setting: %w", err)
	}
	return s, nil
}

func notFound(key string) error {
	return rootshared.NotFound("", "configuração %q não encontrada", key)
}
