package db

import (
	"strconv"
	"strings"
)

// Where accumulates positional SQL predicates.
type Where struct {
	clauses []string
	args    []any
}

// Add appends a predicate; every "?" in clause is bound to arg.
func (w *Where) Add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(w.args))))
}

// Raw appends a predicate without arguments.
func (w *Where) Raw(clause string) {
	w.clauses = append(w.clauses, clause)
}

// SQL renders the WHERE clause, or an empty string.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Args returns the bound arguments.
func (w *Where) Args() []any {
	return w.args
}

// Paginate returns LIMIT/OFFSET placeholders bound after the predicate args.
func (w *Where) Paginate(limit, offset int) (string, []any) {
	n := len(w.args)
	args := append(append([]any{}, w.args...), limit, offset)
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}
