// Package export writes aggregated tables to their destinations: a CSV
// directory, a PostgreSQL database or a SQLite file.
package export

import (
	"context"
)

// Table is a named, fully materialized row set. Every row has exactly
// len(Columns) cells; an empty cell means null.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Sink persists a set of tables produced by one run.
type Sink interface {
	Write(ctx context.Context, tables []Table) error
}
