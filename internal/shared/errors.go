package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks uniqueness or concurrency conflicts; callers may retry.
	ErrConflict = errors.New("conflict")
	// ErrInsufficientStock marks an outbound movement larger than stock on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates an authenticated caller without the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Machine readable codes returned to API clients.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error is a domain error with a stable code and a user facing message.
type Error struct {
	Kind    error
	Code    string
	Message string
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Validation builds an ErrValidation error. details maps field names to problems.
func Validation(message string, details map[string]string) *Error {
	return &Error{Kind: ErrValidation, Code: CodeValidation, Message: message, Details: details}
}

// NotFound builds an ErrNotFound error with the given code.
func NotFound(code, format string, args ...any) *Error {
	if code == "" {
		code = CodeNotFound
	}
	return &Error{Kind: ErrNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds an ErrConflict error.
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock builds an ErrInsufficientStock error.
func InsufficientStock(format string, args ...any) *Error {
	return &Error{Kind: ErrInsufficientStock, Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// UserSafeMessage returns a message that can be shown to API clients.
func UserSafeMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "recurso não encontrado"
	case errors.Is(err, ErrConflict):
		return "conflito ao gravar, tente novamente"
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return "não autenticado"
	case errors.Is(err, ErrForbidden):
		return "acesso negado"
	}
	return "erro interno"
}
