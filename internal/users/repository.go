package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// ErrUserNotFound is returned for unknown user ids.
var ErrUserNotFound = rootshared.NotFound("", "usuário não encontrado")

type Repository interface {
	List(ctx context.Context, req ListRequest) ([]User, int, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user User, passwordHash string) (*User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (*User, error)
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `id, nome, email, perfil, ativo, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]User, int, error) {
	var where db.Where
	if req.Search != "" {
		where.Add(`(nome ILIKE ? OR email ILIKE ?)`, "%"+req.Search+"%")
	}
	if req.Role != "" {
		where.Add(`perfil = ?`, req.Role)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(req.Limit, req.Offset())
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM usuarios`+where.SQL()+` ORDER BY nome`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM usuarios WHERE id = $1`, id))
}

func (r *repository) Create(ctx context.Context, u User, passwordHash string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `INSERT INTO usuarios (nome, email, senha_hash, perfil, ativo)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING `+userColumns, u.Name, u.Email, passwordHash, u.Role))
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, u User) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `UPDATE usuarios SET nome = $1, email = $2, perfil = $3, ativo = $4, updated_at = NOW()
		WHERE id = $5 RETURNING `+userColumns, u.Name, u.Email, u.Role, u.IsActive, id))
}

func (r *repository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE usuarios SET senha_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrUserNotFound
	case db.IsUniqueViolation(err):
		return rootshared.Conflict("já existe usuário com este email")
	}
	return err
}
