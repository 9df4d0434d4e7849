// Package httpx provides JSON request and response helpers for the API.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/balcao/balcao/internal/shared"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an error envelope.
func Problem(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	JSON(w, status, errorEnvelope{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// DecodeJSON decodes JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if r.Body == nil {
		return shared.Validation("corpo da requisição vazio", nil)
	}
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return shared.Validation("corpo da requisição vazio", nil)
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return shared.Validation("JSON inválido", map[string]string{typeErr.Field: fmt.Sprintf("tipo inválido, esperado %s", typeErr.Type)})
		}
		return shared.Validation("JSON inválido", nil)
	}
	return nil
}
