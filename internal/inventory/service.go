package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

const movementOperation = "stock.movement"

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log rootshared.AuditLog) error
}

// Recorder receives ledger metrics.
type Recorder interface {
	StockMovement(movementType string)
	Conflict(operation string)
}

// MovementRequest is the body of POST /api/stock/movement.
type MovementRequest struct {
	ProductID uuid.UUID    `json:"produto_id" validate:"required"`
	Type      MovementType `json:"tipo" validate:"required,oneof=entrada saida ajuste"`
	Quantity  int          `json:"quantidade" validate:"required,gt=0,lte=2147483647"`
	Note      string       `json:"observacao" validate:"max=1000"`
}

// MinimumRequest is the body of PUT /api/stock/{produto_id}/minimum.
type MinimumRequest struct {
	Minimum *int `json:"quantidade_minima" validate:"required,gte=0"`
}

// Service coordinates the stock ledger.
type Service struct {
	repo    Repository
	audit   AuditRecorder
	metrics Recorder
	logger  *slog.Logger
}

// NewService builds Service. audit and metrics may be nil.
func NewService(repo Repository, audit AuditRecorder, metrics Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, metrics: metrics, logger: logger}
}

func productNotFound(id uuid.UUID) error {
	return rootshared.NotFound(rootshared.CodeProductNotFound, "produto %s não encontrado", id)
}

// RecordMovement applies one movement under a lock on the product's stock
// row and appends it to the ledger. An outbound movement larger than the
// stock on hand writes nothing.
func (s *Service) RecordMovement(ctx context.Context, req MovementRequest, actorID uuid.UUID) (*MovementResult, error) {
	if err := validateMovement(req); err != nil {
		return nil, err
	}

	var result MovementResult
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		exists, err := tx.ProductExists(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if !exists {
			return productNotFound(req.ProductID)
		}

		hasRow := true
		current := 0
		stock, err := tx.LockStock(ctx, req.ProductID)
		switch {
		case errors.Is(err, ErrStockNotFound):
			hasRow = false
		case err != nil:
			return err
		default:
			current = stock.Quantity
		}

		next, err := Apply(current, hasRow, req.Type, req.Quantity)
		if err != nil {
			return err
		}
		if hasRow {
			err = tx.UpdateStock(ctx, req.ProductID, next)
		} else {
			err = tx.InsertStock(ctx, req.ProductID, next)
		}
		if err != nil {
			return err
		}

		movement := Movement{
			ProductID: req.ProductID,
			Type:      req.Type,
			Quantity:  req.Quantity,
			Note:      req.Note,
			UserID:    actorID,
		}
		if err := tx.InsertMovement(ctx, &movement); err != nil {
			return err
		}
		result = MovementResult{Movement: movement, NewQuantity: next}
		return nil
	})
	if db.IsRetryable(err) {
		err = rootshared.Conflict("movimentação concorrente no estoque, tente novamente")
	}
	if err != nil {
		if errors.Is(err, rootshared.ErrConflict) && s.metrics != nil {
			s.metrics.Conflict(movementOperation)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.StockMovement(string(req.Type))
	}
	s.record(ctx, rootshared.AuditLog{
		ActorID:  actorID,
		Action:   movementOperation,
		Entity:   "movimentacao_estoque",
		EntityID: result.ID.String(),
		Meta: map[string]any{
			"produto_id":      req.ProductID.String(),
			"tipo":            string(req.Type),
			"quantidade":      req.Quantity,
			"nova_quantidade": result.NewQuantity,
		},
	})
	return &result, nil
}

func validateMovement(req MovementRequest) error {
	details := map[string]string{}
	if req.ProductID == uuid.Nil {
		details["produto_id"] = "campo obrigatório"
	}
	if !req.Type.Valid() {
		details["tipo"] = "deve ser um de: entrada saida ajuste"
	}
	switch {
	case req.Quantity <= 0:
		details["quantidade"] = "deve ser um inteiro maior que 0"
	case req.Quantity > MaxQuantity:
		details["quantidade"] = fmt.Sprintf("deve ser no máximo %d", MaxQuantity)
	}
	if len(details) > 0 {
		return rootshared.Validation("movimentação inválida", details)
	}
	return nil
}

// ListStock returns a page of stock rows.
func (s *Service) ListStock(ctx context.Context, filter StockFilter) ([]Stock, int, error) {
	return s.repo.ListStock(ctx, filter)
}

// GetStock returns the stock row of one product.
func (s *Service) GetStock(ctx context.Context, productID uuid.UUID) (*Stock, error) {
	stock, err := s.repo.GetStock(ctx, productID)
	if errors.Is(err, ErrStockNotFound) {
		return nil, s.missingStock(ctx, productID)
	}
	return stock, err
}

func (s *Service) missingStock(ctx context.Context, productID uuid.UUID) error {
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return productNotFound(productID)
	}
	return rootshared.NotFound("", "produto %s sem estoque registrado", productID)
}

// ListMovements returns the ledger of one product, oldest first.
func (s *Service) ListMovements(ctx context.Context, productID uuid.UUID) ([]Movement, error) {
	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, productNotFound(productID)
	}
	movements, err := s.repo.ListMovements(ctx, productID)
	if err != nil {
		return nil, err
	}
	if movements == nil {
		movements = []Movement{}
	}
	return movements, nil
}

// SetMinimum stores the reorder threshold of a product.
func (s *Service) SetMinimum(ctx context.Context, productID uuid.UUID, minimum int, actorID uuid.UUID) (*Stock, error) {
	if minimum < 0 {
		return nil, rootshared.Validation("quantidade mínima inválida", map[string]string{"quantidade_minima": "não pode ser negativa"})
	}
	stock, err := s.repo.SetMinimum(ctx, productID, minimum)
	if err != nil {
		return nil, err
	}
	s.record(ctx, rootshared.AuditLog{
		ActorID:  actorID,
		Action:   "stock.minimum",
		Entity:   "estoque",
		EntityID: productID.String(),
		Meta:     map[string]any{"quantidade_minima": minimum},
	})
	return stock, nil
}

// Verify replays the ledger and compares it with the stored quantity.
func (s *Service) Verify(ctx context.Context, productID uuid.UUID) (*Verification, error) {
	movements, err := s.ListMovements(ctx, productID)
	if err != nil {
		return nil, err
	}
	v := &Verification{ProductID: productID, Movements: len(movements)}
	preexisting := false
	stock, err := s.repo.GetStock(ctx, productID)
	switch {
	case errors.Is(err, ErrStockNotFound):
	case err != nil:
		return nil, err
	default:
		v.Stored = stock.Quantity
		preexisting = stock.Preexisting
	}
	replayed, replayErr := Replay(preexisting, movements)
	v.Replayed = replayed
	v.Consistent = replayErr == nil && replayed == v.Stored
	if !v.Consistent {
		s.logger.Warn("stock ledger mismatch",
			slog.String("produto_id", productID.String()),
			slog.Int("stored", v.Stored),
			slog.Int("replayed", replayed),
			slog.Any("error", replayErr))
	}
	return v, nil
}

func (s *Service) record(ctx context.Context, entry rootshared.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("audit log", slog.String("action", entry.Action), slog.Any("error", err))
	}
}
