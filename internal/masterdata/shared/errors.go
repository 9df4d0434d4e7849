package shared

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/balcao/balcao/internal/platform/db"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// NotFound builds the not-found error for entity.
func NotFound(entity string) error {
	return rootshared.NotFound("", "%s: registro não encontrado", entity)
}

// TranslateError maps driver errors from catalog writes to domain errors.
// entity names the resource in messages.
func TranslateError(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return NotFound(entity)
	case db.IsUniqueViolation(err):
		return rootshared.Conflict("%s: registro duplicado (%s)", entity, db.ConstraintName(err))
	case db.IsForeignKeyViolation(err):
		return rootshared.Validation("referência inválida", map[string]string{db.ConstraintName(err): "registro relacionado não existe ou está em uso"})
	case db.IsCheckViolation(err):
		return rootshared.Validation("valor fora do permitido", map[string]string{db.ConstraintName(err): "violação de regra"})
	}
	return err
}

// RequireText rejects blank values; fields maps JSON names to values.
func RequireText(fields map[string]string) error {
	details := map[string]string{}
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			details[name] = "campo obrigatório"
		}
	}
	if len(details) > 0 {
		return rootshared.Validation("dados inválidos", details)
	}
	return nil
}

// ValidateDocument checks that a non-empty CPF/CNPJ has one of the allowed
// digit counts.
func ValidateDocument(field, digits string, lengths ...int) error {
	if digits == "" {
		return nil
	}
	for _, n := range lengths {
		if len(digits) == n {
			return nil
		}
	}
	return rootshared.Validation("documento inválido", map[string]string{field: "quantidade de dígitos inválida"})
}
