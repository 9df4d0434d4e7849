package categories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/masterdata/shared"
	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error)
	Get(ctx context.Context, id uuid.UUID) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id uuid.UUID, category Category) (Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectColumns = `SELECT id, nome, COALESCE(descricao, ''), ativo, created_at, updated_at FROM categorias`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	var where db.Where
	if filters.Search != "" {
		where.Add(`nome ILIKE ?`, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		where.Add(`ativo = ?`, *filters.IsActive)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categorias`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(filters.Limit, filters.Offset())
	rows, err := r.pool.Query(ctx, selectColumns+where.SQL()+" ORDER BY "+sortOrder(filters.SortBy, filters.SortDir)+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		categories = append(categories, c)
	}
	return categories, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, shared.TranslateError(err, "categoria")
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categorias (nome, descricao, ativo, created_at, updated_at) VALUES ($1, NULLIF($2, ''), $3, $4, $4) RETURNING id`,
		category.Name, category.Description, category.IsActive, now,
	).Scan(&category.ID)
	if err != nil {
		return Category{}, shared.TranslateError(err, "categoria")
	}
	category.CreatedAt = now
	category.UpdatedAt = now
	return category, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, category Category) (Category, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE categorias SET nome = $1, descricao = NULLIF($2, ''), ativo = $3, updated_at = NOW() WHERE id = $4 RETURNING id, created_at, updated_at`,
		category.Name, category.Description, category.IsActive, id,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return Category{}, shared.TranslateError(err, "categoria")
	}
	return category, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return rootshared.Conflict("categoria em uso por produtos; desative-a em vez de excluir")
	}
	if err != nil {
		return shared.TranslateError(err, "categoria")
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("categoria")
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := shared.SortDirection(sortDir)
	switch sortBy {
	case "created_at":
		return "created_at " + dir
	default:
		return "nome " + dir
	}
}
