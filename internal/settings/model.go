// Package settings stores application configuration as key/value rows.
package settings

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_.]{1,100}$`)

// Setting is one row of configuracoes.
type Setting struct {
	Key         string     `json:"chave"`
	Value       string     `json:"valor"`
	Description string     `json:"descricao"`
	UpdatedBy   *uuid.UUID `json:"updated_by"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpdateRequest is the body of PUT /api/config/{chave}.
type UpdateRequest struct {
	Value       *string `json:"valor" validate:"required,max=10000"`
	Description *string `json:"descricao" validate:"omitempty,max=500"`
}
