package categories

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	IsActive    bool      `json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryForm is the create/update payload.
type CategoryForm struct {
	Name        string `json:"nome" validate:"required,max=100"`
	Description string `json:"descricao" validate:"max=1000"`
	IsActive    *bool  `json:"ativo"`
}

func (f CategoryForm) toCategory() Category {
	c := Category{Name: f.Name, Description: f.Description, IsActive: true}
	if f.IsActive != nil {
		c.IsActive = *f.IsActive
	}
	return c
}
