package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWhereBindsPositionalArgs(t *testing.T) {
	var w Where
	require.Empty(t, w.SQL())

	w.Add("ativo = ?", true)
	w.Add("(nome ILIKE ? OR codigo ILIKE ?)", "%cafe%")

	require.Equal(t, " WHERE ativo = $1 AND (nome ILIKE $2 OR codigo ILIKE $2)", w.SQL())
	require.Equal(t, []any{true, "%cafe%"}, w.Args())

	limit, args := w.Paginate(20, 40)
	require.Equal(t, " LIMIT $3 OFFSET $4", limit)
	require.Equal(t, []any{true, "%cafe%", 20, 40}, args)
	require.Len(t, w.Args(), 2)
}

func TestWhereRawPredicate(t *testing.T) {
	var w Where
	w.Raw("quantidade_atual < quantidade_minima")
	w.Add("nome ILIKE ?", "%a%")

	require.Equal(t, " WHERE quantidade_atual < quantidade_minima AND nome ILIKE $1", w.SQL())
	require.Equal(t, []any{"%a%"}, w.Args())
}
