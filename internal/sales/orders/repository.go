package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// numberLockKey scopes the advisory lock that serializes sequence numbers.
const numberLockKey int64 = 7_301_001

var (
	// ErrOrderNotFound is returned for unknown order ids.
	ErrOrderNotFound = rootshared.NotFound("", "venda não encontrada")
	// ErrNumberTaken surfaces a lost race on the order sequence number.
	ErrNumberTaken = rootshared.Conflict("número de venda já utilizado por outra transação, tente novamente")
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest) ([]OrderWithDetails, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error)
}

// TxRepository exposes the writes of order creation; all calls share one
// transaction.
type TxRepository interface {
	NextNumber(ctx context.Context) (int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	InsertOrder(ctx context.Context, order *Order) error
	InsertLines(ctx context.Context, orderID uuid.UUID, lines []Line) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

// NextNumber takes a transaction-scoped advisory lock and returns MAX+1.
// The lock is held until commit or rollback, so concurrent creators read
// the number only after the previous holder's insert is visible.
func (r *repository) NextNumber(ctx context.Context) (int, error) {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, numberLockKey); err != nil {
		return 0, fmt.Errorf("lock order number: %w", err)
	}
	var next int
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(MAX(numero), 0) + 1 FROM vendas`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return next, nil
}

// GetProduct reads the product under a share lock so it cannot be
// deactivated or repriced until the order commits.
func (r *repository) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `SELECT id, codigo, nome, preco_venda, ativo FROM produtos WHERE id = $1 FOR SHARE`, id).
		Scan(&p.ID, &p.Code, &p.Name, &p.SalePrice, &p.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, rootshared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) InsertOrder(ctx context.Context, o *Order) error {
	err := r.db.QueryRow(ctx, `INSERT INTO vendas (numero, cliente_id, vendedor_id, subtotal, desconto, acrescimo, valor_frete, total,
			forma_pagamento, observacoes, endereco_entrega, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), $12)
		RETURNING id, created_at, updated_at`,
		o.Number, o.CustomerID, o.SellerID, o.Subtotal, o.Discount, o.Surcharge, o.Shipping, o.Total,
		o.PaymentMethod, o.Notes, o.DeliveryAddress, o.Status,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		return ErrNumberTaken
	case db.IsForeignKeyViolation(err) && db.ConstraintName(err) == "vendas_cliente_id_fkey":
		return rootshared.Validation("cliente inexistente", map[string]string{"cliente_id": "cliente não encontrado"})
	}
	return fmt.Errorf("insert order: %w", err)
}

func (r *repository) InsertLines(ctx context.Context, orderID uuid.UUID, lines []Line) error {
	batch := &pgx.Batch{}
	for i := range lines {
		l := &lines[i]
		batch.Queue(`INSERT INTO itens_venda (venda_id, produto_id, produto_nome, produto_codigo, quantidade, preco_unitario, desconto_item, subtotal, ordem)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
			orderID, l.ProductID, l.ProductName, l.ProductCode, l.Quantity, l.UnitPrice, l.Discount, l.Subtotal, l.Position,
		).QueryRow(func(row pgx.Row) error {
			l.OrderID = orderID
			return row.Scan(&l.ID)
		})
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert order lines: %w", err)
	}
	return nil
}

const orderColumns = `v.id, v.numero, v.cliente_id, v.vendedor_id, v.subtotal, v.desconto, v.acrescimo, v.valor_frete, v.total,
	v.forma_pagamento, COALESCE(v.observacoes, ''), COALESCE(v.endereco_entrega, ''), v.status, v.created_at, v.updated_at`

func scanOrder(row pgx.Row, extra ...any) (*Order, error) {
	var o Order
	dest := append([]any{&o.ID, &o.Number, &o.CustomerID, &o.SellerID, &o.Subtotal, &o.Discount, &o.Surcharge, &o.Shipping, &o.Total,
		&o.PaymentMethod, &o.Notes, &o.DeliveryAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM vendas v WHERE v.id = $1`, id))
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, venda_id, produto_id, produto_nome, produto_codigo, quantidade, preco_unitario, desconto_item, subtotal, ordem
		FROM itens_venda WHERE venda_id = $1 ORDER BY ordem`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.ProductCode, &l.Quantity, &l.UnitPrice, &l.Discount, &l.Subtotal, &l.Position); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

func (r *repository) List(ctx context.Context, req ListOrdersRequest) ([]OrderWithDetails, int, error) {
	var where db.Where
	if req.Status != nil {
		where.Add(`v.status = ?`, *req.Status)
	}
	if req.CustomerID != nil {
		where.Add(`v.cliente_id = ?`, *req.CustomerID)
	}
	if req.SellerID != nil {
		where.Add(`v.vendedor_id = ?`, *req.SellerID)
	}
	if req.DateFrom != nil {
		where.Add(`v.created_at >= ?`, *req.DateFrom)
	}
	if req.DateTo != nil {
		// date_to is inclusive of the whole day
		where.Add(`v.created_at < ?`, req.DateTo.Add(24*time.Hour))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vendas v`+where.SQL(), where.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, args := where.Paginate(req.Limit, req.Offset())
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+`, c.nome, u.nome
		FROM vendas v
		JOIN clientes c ON c.id = v.cliente_id
		JOIN usuarios u ON u.id = v.vendedor_id`+where.SQL()+` ORDER BY v.numero DESC`+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []OrderWithDetails
	for rows.Next() {
		var d OrderWithDetails
		o, err := scanOrder(rows, &d.CustomerName, &d.SellerName)
		if err != nil {
			return nil, 0, err
		}
		d.Order = *o
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error) {
	return scanOrder(r.db.QueryRow(ctx, `UPDATE vendas v SET status = $1, updated_at = NOW() WHERE v.id = $2 RETURNING `+orderColumns, status, id))
}
