package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"

	"github.com/albapepper/playerdata/internal/logging"
)

// SQLiteSink writes tables into a SQLite database file. Existing tables of
// the same name are dropped and recreated.
type SQLiteSink struct {
	db     *sql.DB
	logger *logging.Logger
}

// OpenSQLite opens (creating if needed) the database at path. The path can
// be ":memory:".
func OpenSQLite(path string, logger *logging.Logger) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// A single connection keeps ":memory:" databases consistent.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite database")
	}
	return &SQLiteSink{db: db, logger: logger}, nil
}

// DB exposes the underlying handle.
func (s *SQLiteSink) DB() *sql.DB { return s.db }

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) Write(ctx context.Context, tables []Table) error {
	for _, t := range tables {
		if err := s.writeTable(ctx, t); err != nil {
			return errors.Wrapf(err, "write table %s", t.Name)
		}
		s.logger.Info("Table written", "table", t.Name, "rows", len(t.Rows))
	}
	return nil
}

func (s *SQLiteSink) writeTable(ctx context.Context, t Table) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	name := quoteSQLite(t.Name)
	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+name); err != nil {
		return err
	}

	cols := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteSQLite(c) + " TEXT"
		placeholders[i] = "?"
	}
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(cols, ", "))); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, strings.Join(placeholders, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range copyRows(t.Rows) {
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func quoteSQLite(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
