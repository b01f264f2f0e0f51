package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/albapepper/playerdata/internal/logging"
)

// txBeginner is satisfied by *pgxpool.Pool, *db.Pool and *pgx.Conn.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink replaces the contents of one table per export table. Each
// table is created if missing (all columns TEXT), truncated and bulk loaded
// with COPY inside a single transaction.
type PostgresSink struct {
	db     txBeginner
	schema string
	logger *logging.Logger
}

// NewPostgresSink creates a sink. An empty schema uses the search path.
func NewPostgresSink(db txBeginner, schema string, logger *logging.Logger) *PostgresSink {
	return &PostgresSink{db: db, schema: schema, logger: logger}
}

func (s *PostgresSink) Write(ctx context.Context, tables []Table) error {
	for _, t := range tables {
		ident := s.identifier(t.Name)
		err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, createTableSQL(ident, t.Columns)); err != nil {
				return errors.Wrap(err, "create table")
			}
			if _, err := tx.Exec(ctx, "TRUNCATE "+ident.Sanitize()); err != nil {
				return errors.Wrap(err, "truncate")
			}
			n, err := tx.CopyFrom(ctx, ident, t.Columns, pgx.CopyFromRows(copyRows(t.Rows)))
			if err != nil {
				return errors.Wrap(err, "copy rows")
			}
			s.logger.Info("Table loaded", "table", ident.Sanitize(), "rows", n)
			return nil
		})
		if err != nil {
			return errors.Wrapf(err, "load table %s", t.Name)
		}
	}
	return nil
}

func (s *PostgresSink) identifier(name string) pgx.Identifier {
	if s.schema == "" {
		return pgx.Identifier{name}
	}
	return pgx.Identifier{s.schema, name}
}

func createTableSQL(ident pgx.Identifier, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = pgx.Identifier{c}.Sanitize() + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", ident.Sanitize(), strings.Join(cols, ", "))
}

// copyRows converts cells for COPY; empty cells become NULL.
func copyRows(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(row))
		for j, cell := range row {
			if cell != "" {
				vals[j] = cell
			}
		}
		out[i] = vals
	}
	return out
}
