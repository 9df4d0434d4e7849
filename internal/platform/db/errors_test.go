package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert venda: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_vendas_numero"})
	require.True(t, IsUniqueViolation(unique))
	require.False(t, IsForeignKeyViolation(unique))
	require.Equal(t, "uq_vendas_numero", ConstraintName(unique))

	require.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	require.True(t, IsCheckViolation(&pgconn.PgError{Code: "23514"}))
	require.True(t, IsRetryable(&pgconn.PgError{Code: "40001"}))
	require.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))

	plain := errors.New("boom")
	require.False(t, IsUniqueViolation(plain))
	require.False(t, IsRetryable(plain))
	require.Empty(t, ConstraintName(plain))
}
