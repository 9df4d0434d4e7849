package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// ErrStockNotFound indicates a product without a stock row.
var ErrStockNotFound = errors.New("inventory: stock row not found")

// Repository persists stock rows and the movement ledger.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
	ListStock(ctx context.Context, filter StockFilter) ([]Stock, int, error)
	GetStock(ctx context.Context, productID uuid.UUID) (*Stock, error)
	ListMovements(ctx context.Context, productID uuid.UUID) ([]Movement, error)
	SetMinimum(ctx context.Context, productID uuid.UUID, minimum int) (*Stock, error)
}

// TxRepository exposes the ledger writes; all calls share one transaction.
type TxRepository interface {
	ProductExists(ctx context.Context, productID uuid.UUID) (bool, error)
	LockStock(ctx context.Context, productID uuid.UUID) (*Stock, error)
	InsertStock(ctx context.Context, productID uuid.UUID, quantity int) error
	UpdateStock(ctx context.Context, productID uuid.UUID, quantity int) error
	InsertMovement(ctx context.Context, m *Movement) error
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

// WithTx runs fn in a READ COMMITTED transaction. LockStock takes a row
// lock, so the quantity read inside fn is the latest committed one.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

func (r *repository) ProductExists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM produtos WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product: %w", err)
	}
	return exists, nil
}

const stockColumns = `e.produto_id, p.codigo, p.nome, e.quantidade_atual, e.quantidade_minima,
	e.quantidade_atual < e.quantidade_minima, e.ultima_movimentacao, e.updated_at, e.pre_existente`

func scanStock(row pgx.Row) (*Stock, error) {
	var s Stock
	err := row.Scan(&s.ProductID, &s.ProductCode, &s.ProductName, &s.Quantity, &s.Minimum,
		&s.BelowMinimum, &s.LastMovement, &s.UpdatedAt, &s.Preexisting)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStockNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) LockStock(ctx context.Context, productID uuid.UUID) (*Stock, error) {
	return scanStock(r.db.QueryRow(ctx, `SELECT `+stockColumns+`
		FROM estoque e JOIN produtos p ON p.id = e.produto_id
		WHERE e.produto_id = $1
		FOR UPDATE OF e`, productID))
}

// InsertStock creates the row for a product's first movement. A concurrent
// first movement loses on the primary key and gets a conflict.
func (r *repository) InsertStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	_, err := r.db.Exec(ctx, `INSERT INTO estoque (produto_id, quantidade_atual, ultima_movimentacao, pre_existente, updated_at)
		VALUES ($1, $2, NOW(), FALSE, NOW())`, productID, quantity)
	if db.IsUniqueViolation(err) {
		return rootshared.Conflict("movimentação concorrente no estoque do produto %s, tente novamente", productID)
	}
	if err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

func (r *repository) UpdateStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	_, err := r.db.Exec(ctx, `UPDATE estoque SET quantidade_atual = $2, ultima_movimentacao = NOW(), updated_at = NOW()
		WHERE produto_id = $1`, productID, quantity)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

func (r *repository) InsertMovement(ctx context.Context, m *Movement) error {
	err := r.db.QueryRow(ctx, `INSERT INTO movimentacoes_estoque (produto_id, tipo, quantidade, observacao, usuario_id)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id, data_movimentacao`,
		m.ProductID, m.Type, m.Quantity, m.Note, m.UserID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *repository) ListStock(ctx context.Context, filter StockFilter) ([]Stock, int, error) {
	var where db.Where
	if filter.BelowMinimum {
		where.Raw(`e.quantidade_atual < e.quantidade_minima`)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where.Add(`(p.nome ILIKE ? OR p.codigo ILIKE ?)`, "%"+search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM estoque e JOIN produtos p ON p.id = e.produto_id`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(filter.Limit, filter.Offset())
	rows, err := r.db.Query(ctx, `SELECT `+stockColumns+`
		FROM estoque e JOIN produtos p ON p.id = e.produto_id`+where.SQL()+` ORDER BY p.nome`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

func (r *repository) GetStock(ctx context.Context, productID uuid.UUID) (*Stock, error) {
	return scanStock(r.db.QueryRow(ctx, `SELECT `+stockColumns+`
		FROM estoque e JOIN produtos p ON p.id = e.produto_id
		WHERE e.produto_id = $1`, productID))
}

func (r *repository) ListMovements(ctx context.Context, productID uuid.UUID) ([]Movement, error) {
	rows, err := r.db.Query(ctx, `SELECT id, produto_id, tipo, quantidade, COALESCE(observacao, ''), usuario_id, data_movimentacao
		FROM movimentacoes_estoque WHERE produto_id = $1 ORDER BY seq`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Note, &m.UserID, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SetMinimum upserts the minimum. A new row starts at zero and counts as
// preexisting for ledger replay.
func (r *repository) SetMinimum(ctx context.Context, productID uuid.UUID, minimum int) (*Stock, error) {
	_, err := r.db.Exec(ctx, `INSERT INTO estoque (produto_id, quantidade_atual, quantidade_minima, updated_at)
		VALUES ($1, 0, $2, $3)
		ON CONFLICT (produto_id) DO UPDATE SET quantidade_minima = EXCLUDED.quantidade_minima, updated_at = EXCLUDED.updated_at`,
		productID, minimum, time.Now())
	if db.IsForeignKeyViolation(err) {
		return nil, productNotFound(productID)
	}
	if err != nil {
		return nil, fmt.Errorf("set minimum: %w", err)
	}
	return r.GetStock(ctx, productID)
}
