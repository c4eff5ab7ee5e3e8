package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the statement executor shared by all repositories. It is
// satisfied by both *sql.DB and *sql.Tx, so the same queries run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// updateBuilder assembles the SET clause of a partial update. Column
// names are checked against a fixed allow-list before they reach the
// statement text; values are always bound parameters.
type updateBuilder struct {
	allowed map[string]bool
	cols    []string
	args    []any
	err     error
}

func newUpdateBuilder(allowedColumns ...string) *updateBuilder {
	allowed := make(map[string]bool, len(allowedColumns))
	for _, c := range allowedColumns {
		allowed[c] = true
	}
	return &updateBuilder{allowed: allowed}
}

// Set adds one column assignment. A column outside the allow-list
// poisons the builder and surfaces as an error from Build.
func (b *updateBuilder) Set(column string, value any) *updateBuilder {
	if b.err != nil {
		return b
	}
	if !b.allowed[column] {
		b.err = fmt.Errorf("column %q is not updatable", column)
		return b
	}
	b.cols = append(b.cols, column)
	b.args = append(b.args, value)
	return b
}

// Empty reports whether no assignment was added
func (b *updateBuilder) Empty() bool {
	return len(b.cols) == 0 && b.err == nil
}

// Build returns the full UPDATE statement and its bound arguments,
// with the key value appended as the final parameter.
func (b *updateBuilder) Build(table, keyColumn string, key int64) (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if len(b.cols) == 0 {
		return "", nil, errors.New("no columns to update")
	}

	assignments := make([]string, len(b.cols))
	for i, col := range b.cols {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(assignments, ", "), keyColumn, len(b.cols)+1)

	return query, append(b.args, key), nil
}

// isUniqueViolation reports whether err is a unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a foreign key
// violation (SQLSTATE 23503)
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
