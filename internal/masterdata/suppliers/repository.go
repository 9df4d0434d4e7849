package suppliers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/masterdata/shared"
	"github.com/balcao/balcao/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id uuid.UUID) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, id uuid.UUID, supplier Supplier) (Supplier, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectColumns = `SELECT id, nome, COALESCE(cnpj, ''), COALESCE(email, ''), COALESCE(telefone, ''),
	COALESCE(endereco, ''), COALESCE(contato, ''), ativo, created_at, updated_at FROM fornecedores`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.CNPJ, &s.Email, &s.Phone, &s.Address, &s.Contact, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	var where db.Where
	if filters.Search != "" {
		where.Add(`(nome ILIKE ? OR cnpj ILIKE ? OR contato ILIKE ?)`, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		where.Add(`ativo = ?`, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fornecedores`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(filters.Limit, filters.Offset())
	rows, err := r.db.Query(ctx, selectColumns+where.SQL()+" ORDER BY "+sortOrder(filters.SortBy, filters.SortDir)+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	s, err := scanSupplier(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	return s, shared.TranslateError(err, "fornecedor")
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `INSERT INTO fornecedores (nome, cnpj, email, telefone, endereco, contato, ativo, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $8) RETURNING id`,
		supplier.Name, supplier.CNPJ, supplier.Email, supplier.Phone, supplier.Address, supplier.Contact, supplier.IsActive, now,
	).Scan(&supplier.ID)
	if err != nil {
		return Supplier{}, shared.TranslateError(err, "fornecedor")
	}
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, supplier Supplier) (Supplier, error) {
	err := r.db.QueryRow(ctx, `UPDATE fornecedores SET nome = $1, cnpj = NULLIF($2, ''), email = NULLIF($3, ''), telefone = NULLIF($4, ''),
		endereco = NULLIF($5, ''), contato = NULLIF($6, ''), ativo = $7, updated_at = NOW()
		WHERE id = $8 RETURNING id, created_at, updated_at`,
		supplier.Name, supplier.CNPJ, supplier.Email, supplier.Phone, supplier.Address, supplier.Contact, supplier.IsActive, id,
	).Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
	if err != nil {
		return Supplier{}, shared.TranslateError(err, "fornecedor")
	}
	return supplier, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE fornecedores SET ativo = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("fornecedor")
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := shared.SortDirection(sortDir)
	switch sortBy {
	case "cnpj":
		return "cnpj " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "nome " + dir
	}
}
