package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/balcao/balcao/internal/platform/db"
	"github.com/balcao/balcao/internal/rbac"
	"github.com/balcao/balcao/internal/sales/shared"
	rootshared "github.com/balcao/balcao/internal/shared"
)

const idempotencyModule = "sales.create"

// IdempotencyStore reserves request keys.
type IdempotencyStore interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key, module string) error
}

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log rootshared.AuditLog) error
}

// Recorder receives business metrics.
type Recorder interface {
	OrderCreated()
	Conflict(operation string)
}

type Service struct {
	repo        Repository
	idempotency IdempotencyStore
	audit       AuditRecorder
	metrics     Recorder
	logger      *slog.Logger
}

// NewService constructs the order service. idempotency, audit and metrics
// are optional.
func NewService(repo Repository, idempotency IdempotencyStore, audit AuditRecorder, metrics Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, idempotency: idempotency, audit: audit, metrics: metrics, logger: logger}
}

// Create records a sale and its lines in one transaction. Totals are
// computed from the catalog unless a line overrides the unit price. Stock
// is not touched.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, sellerID uuid.UUID, idempotencyKey string) (*Order, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, idempotencyKey, idempotencyModule); err != nil {
			return nil, err
		}
	}

	order, err := s.create(ctx, req, sellerID)
	if err != nil {
		if idempotencyKey != "" && s.idempotency != nil {
			if delErr := s.idempotency.Delete(context.WithoutCancel(ctx), idempotencyKey, idempotencyModule); delErr != nil {
				s.logger.Warn("release idempotency key", slog.String("key", idempotencyKey), slog.Any("error", delErr))
			}
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrderCreated()
	}
	s.record(ctx, rootshared.AuditLog{
		ActorID:  sellerID,
		Action:   "sales.create",
		Entity:   "venda",
		EntityID: order.ID.String(),
		Meta:     map[string]any{"numero": order.Number, "total": order.Total.StringFixed(shared.MoneyPlaces), "itens": len(req.Items)},
	})
	return order, nil
}

func (s *Service) create(ctx context.Context, req CreateOrderRequest, sellerID uuid.UUID) (*Order, error) {
	order := &Order{
		CustomerID:      req.CustomerID,
		SellerID:        sellerID,
		Discount:        shared.OrZero(req.Discount),
		Surcharge:       shared.OrZero(req.Surcharge),
		Shipping:        shared.OrZero(req.Shipping),
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
		DeliveryAddress: req.DeliveryAddress,
		Status:          StatusPending,
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		number, err := tx.NextNumber(ctx)
		if err != nil {
			return err
		}
		order.Number = number

		lines := make([]Line, 0, len(req.Items))
		subtotal := decimal.Zero
		for i, item := range req.Items {
			product, err := tx.GetProduct(ctx, item.ProductID)
			if errors.Is(err, rootshared.ErrNotFound) || (err == nil && !product.IsActive) {
				return lineItemInvalid(i, item.ProductID)
			}
			if err != nil {
				return fmt.Errorf("load product %s: %w", item.ProductID, err)
			}

			price := product.SalePrice
			if item.UnitPrice != nil {
				price = *item.UnitPrice
			}
			discount := shared.OrZero(item.Discount)
			lineSubtotal := shared.LineSubtotal(price, item.Quantity, discount)
			if lineSubtotal.IsNegative() {
				return rootshared.Validation("desconto maior que o valor do item", map[string]string{
					fmt.Sprintf("itens[%d].desconto_item", i): "excede preço x quantidade",
				})
			}
			subtotal = subtotal.Add(lineSubtotal)
			lines = append(lines, Line{
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductCode: product.Code,
				Quantity:    item.Quantity,
				UnitPrice:   price,
				Discount:    discount,
				Subtotal:    lineSubtotal,
				Position:    i + 1,
			})
		}

		order.Subtotal = subtotal
		order.Total = shared.OrderTotal(subtotal, order.Discount, order.Surcharge, order.Shipping)
		if order.Total.IsNegative() {
			return rootshared.Validation("total da venda negativo", map[string]string{"desconto": "excede subtotal + acréscimo + frete"})
		}

		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		return tx.InsertLines(ctx, order.ID, lines)
	})
	if db.IsRetryable(err) {
		err = rootshared.Conflict("conflito de concorrência ao gravar a venda, tente novamente")
	}
	if err != nil {
		if errors.Is(err, rootshared.ErrConflict) && s.metrics != nil {
			s.metrics.Conflict(idempotencyModule)
		}
		return nil, err
	}
	return order, nil
}

func lineItemInvalid(index int, productID uuid.UUID) error {
	return &rootshared.Error{
		Kind:    rootshared.ErrValidation,
		Code:    rootshared.CodeProductNotFound,
		Message: fmt.Sprintf("produto %s não encontrado ou inativo", productID),
		Details: map[string]string{fmt.Sprintf("itens[%d].produto_id", index): productID.String()},
	}
}

// Get returns an order with its lines. Sellers only see their own sales.
func (s *Service) Get(ctx context.Context, id uuid.UUID, requester rbac.Principal) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.Role.Elevated() && order.SellerID != requester.ID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// List returns a page of orders. Sellers are restricted to their own.
func (s *Service) List(ctx context.Context, req ListOrdersRequest, requester rbac.Principal) ([]OrderWithDetails, int, error) {
	if !requester.Role.Elevated() {
		id := requester.ID
		req.SellerID = &id
	}
	if req.DateFrom != nil && req.DateTo != nil && req.DateTo.Before(*req.DateFrom) {
		return nil, 0, rootshared.Validation("período inválido", map[string]string{"data_fim": "anterior a data_inicio"})
	}
	return s.repo.List(ctx, req)
}

// UpdateStatus sets any status on the order; transitions are not ordered.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, actorID uuid.UUID) (*Order, error) {
	if !status.Valid() {
		return nil, rootshared.Validation("status inválido", map[string]string{"status": "deve ser um de: pendente confirmada entregue cancelada"})
	}
	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.record(ctx, rootshared.AuditLog{
		ActorID:  actorID,
		Action:   "sales.status",
		Entity:   "venda",
		EntityID: id.String(),
		Meta:     map[string]any{"status": string(status)},
	})
	return order, nil
}

func (s *Service) record(ctx context.Context, entry rootshared.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("audit log", slog.String("action", entry.Action), slog.Any("error", err))
	}
}
