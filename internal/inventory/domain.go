package inventory

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	rootshared "github.com/balcao/balcao/internal/shared"
)

// MovementType enumerates stock ledger entries.
type MovementType string

const (
	// MovementIn adds to the stock on hand.
	MovementIn MovementType = "entrada"
	// MovementOut subtracts from the stock on hand and never underflows.
	MovementOut MovementType = "saida"
	// MovementAdjust sets the stock on hand to an absolute value.
	MovementAdjust MovementType = "ajuste"
)

// MaxQuantity is the largest quantity a stock column holds.
const MaxQuantity = math.MaxInt32

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust:
		return true
	}
	return false
}

// Stock is the current quantity of one product.
type Stock struct {
	ProductID    uuid.UUID  `json:"produto_id"`
	ProductCode  string     `json:"produto_codigo"`
	ProductName  string     `json:"produto_nome"`
	Quantity     int        `json:"quantidade_atual"`
	Minimum      int        `json:"quantidade_minima"`
	BelowMinimum bool       `json:"abaixo_minimo"`
	LastMovement *time.Time `json:"ultima_movimentacao"`
	UpdatedAt    time.Time  `json:"updated_at"`
	// Preexisting is set when the row was created before any movement,
	// by product registration or by setting a minimum.
	Preexisting bool `json:"-"`
}

// Movement is an immutable ledger entry.
type Movement struct {
	ID        uuid.UUID    `json:"id"`
	ProductID uuid.UUID    `json:"produto_id"`
	Type      MovementType `json:"tipo"`
	Quantity  int          `json:"quantidade"`
	Note      string       `json:"observacao"`
	UserID    uuid.UUID    `json:"usuario_id"`
	CreatedAt time.Time    `json:"data_movimentacao"`
}

// MovementResult is the ledger entry plus the resulting stock on hand.
type MovementResult struct {
	Movement
	NewQuantity int `json:"nova_quantidade"`
}

// Verification compares the stored quantity with a ledger replay.
type Verification struct {
	ProductID  uuid.UUID `json:"produto_id"`
	Stored     int       `json:"quantidade_registrada"`
	Replayed   int       `json:"quantidade_reconstruida"`
	Movements  int       `json:"movimentacoes"`
	Consistent bool      `json:"consistente"`
}

// StockFilter narrows stock listings.
type StockFilter struct {
	rootshared.PageRequest
	Search       string
	BelowMinimum bool
}

// Apply computes the quantity after one movement. exists is false when the
// product has no stock row yet: an inbound movement then starts at quantity
// and any other type starts at zero.
func Apply(current int, exists bool, t MovementType, quantity int) (int, error) {
	if !exists {
		if t == MovementIn {
			return quantity, nil
		}
		return 0, nil
	}
	switch t {
	case MovementIn:
		if current > MaxQuantity-quantity {
			return current, rootshared.Validation("quantidade excede o limite do estoque",
				map[string]string{"quantidade": fmt.Sprintf("estoque resultante não pode passar de %d", MaxQuantity)})
		}
		return current + quantity, nil
	case MovementOut:
		if quantity > current {
			return current, rootshared.InsufficientStock("estoque insuficiente: disponível %d, solicitado %d", current, quantity)
		}
		return current - quantity, nil
	case MovementAdjust:
		return quantity, nil
	}
	return current, rootshared.Validation("tipo de movimentação inválido", map[string]string{"tipo": "deve ser um de: entrada saida ajuste"})
}

// Replay folds a ledger, oldest first, into the quantity it produces.
// preexisting tells whether a zero stock row existed before the first entry.
func Replay(preexisting bool, movements []Movement) (int, error) {
	var (
		quantity int
		exists   = preexisting
		err      error
	)
	for _, m := range movements {
		if quantity, err = Apply(quantity, exists, m.Type, m.Quantity); err != nil {
			return quantity, err
		}
		exists = true
	}
	return quantity, nil
}
