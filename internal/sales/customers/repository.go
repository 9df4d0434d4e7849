package customers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error)
	Create(ctx context.Context, customer Customer) (*Customer, error)
	Update(ctx context.Context, id uuid.UUID, customer Customer) (*Customer, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const selectColumns = `SELECT id, nome, COALESCE(cpf_cnpj, ''), COALESCE(email, ''), COALESCE(telefone, ''),
	COALESCE(endereco, ''), COALESCE(cidade, ''), COALESCE(estado, ''), COALESCE(cep, ''), ativo, created_at, updated_at
	FROM clientes`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Document, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.PostalCode, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return scanCustomer(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
}

func (r *repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var where db.Where
	if req.Search != "" {
		where.Add(`(nome ILIKE ? OR cpf_cnpj ILIKE ? OR email ILIKE ? OR cidade ILIKE ?)`, "%"+req.Search+"%")
	}
	if req.IsActive != nil {
		where.Add(`ativo = ?`, *req.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clientes`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(req.Limit, req.Offset())
	rows, err := r.db.Query(ctx, selectColumns+where.SQL()+` ORDER BY nome`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Customer) (*Customer, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `INSERT INTO clientes (nome, cpf_cnpj, email, telefone, endereco, cidade, estado, cep, ativo, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $10)
		RETURNING id`,
		c.Name, c.Document, c.Email, c.Phone, c.Address, c.City, c.State, c.PostalCode, c.IsActive, now,
	).Scan(&c.ID)
	if err != nil {
		return nil, translate(err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return &c, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, c Customer) (*Customer, error) {
	err := r.db.QueryRow(ctx, `UPDATE clientes SET nome = $1, cpf_cnpj = NULLIF($2, ''), email = NULLIF($3, ''), telefone = NULLIF($4, ''),
		endereco = NULLIF($5, ''), cidade = NULLIF($6, ''), estado = NULLIF($7, ''), cep = NULLIF($8, ''), ativo = $9, updated_at = NOW()
		WHERE id = $10 RETURNING id, created_at, updated_at`,
		c.Name, c.Document, c.Email, c.Phone, c.Address, c.City, c.State, c.PostalCode, c.IsActive, id,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE clientes SET ativo = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrCustomerNotFound
	case db.IsUniqueViolation(err):
		return rootshared.Conflict("já existe cliente com este CPF/CNPJ")
	}
	return err
}
