package products

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
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (Product, error)
	// Create inserts the product and, when minimumStock is set, its stock
	// row with quantity zero in the same transaction.
	Create(ctx context.Context, product Product, minimumStock *int) (Product, error)
	Update(ctx context.Context, id uuid.UUID, product Product) (Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectColumns = `SELECT id, codigo, nome, COALESCE(descricao, ''), categoria_id, fornecedor_id,
	preco_custo, preco_venda, unidade, ativo, created_at, updated_at FROM produtos`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.CostPrice, &p.SalePrice, &p.Unit, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	var where db.Where
	if filters.CategoryID != nil {
		where.Add(`categoria_id = ?`, *filters.CategoryID)
	}
	if filters.Search != "" {
		where.Add(`(nome ILIKE ? OR codigo ILIKE ?)`, "%"+filters.Search+"%")
	}
	if filters.IsActive != nil {
		where.Add(`ativo = ?`, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM produtos`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(filters.Limit, filters.Offset())
	rows, err := r.db.Query(ctx, selectColumns+where.SQL()+" ORDER BY "+sortOrder(filters.SortBy, filters.SortDir)+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	return p, shared.TranslateError(err, "produto")
}

func (r *repository) Create(ctx context.Context, product Product, minimumStock *int) (Product, error) {
	now := time.Now().UTC()
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `INSERT INTO produtos (codigo, nome, descricao, categoria_id, fornecedor_id, preco_custo, preco_venda, unidade, ativo, created_at, updated_at)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`,
			product.Code, product.Name, product.Description, product.CategoryID, product.SupplierID,
			product.CostPrice, product.SalePrice, product.Unit, product.IsActive, now,
		).Scan(&product.ID)
		if err != nil {
			return err
		}
		if minimumStock == nil {
			return nil
		}
		_, err = tx.Exec(ctx, `INSERT INTO estoque (produto_id, quantidade_atual, quantidade_minima, updated_at) VALUES ($1, 0, $2, $3)`,
			product.ID, *minimumStock, now)
		return err
	})
	if err != nil {
		return Product{}, shared.TranslateError(err, "produto")
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	return product, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, product Product) (Product, error) {
	err := r.db.QueryRow(ctx, `UPDATE produtos SET codigo = $1, nome = $2, descricao = NULLIF($3, ''), categoria_id = $4, fornecedor_id = $5,
		preco_custo = $6, preco_venda = $7, unidade = $8, ativo = $9, updated_at = NOW()
		WHERE id = $10 RETURNING id, created_at, updated_at`,
		product.Code, product.Name, product.Description, product.CategoryID, product.SupplierID,
		product.CostPrice, product.SalePrice, product.Unit, product.IsActive, id,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return Product{}, shared.TranslateError(err, "produto")
	}
	return product, nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE produtos SET ativo = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.NotFound("produto")
	}
	return nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := shared.SortDirection(sortDir)
	switch sortBy {
	case "codigo":
		return "codigo " + dir
	case "preco_venda":
		return "preco_venda " + dir
	case "preco_custo":
		return "preco_custo " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "nome " + dir
	}
}
