package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/albapepper/playerdata/internal/logging"
)

// RunDir returns the per-run output directory under base, named after the
// run's start minute (base/YYYY_MM_DD_HH_MM).
func RunDir(base string, now time.Time) string {
	return filepath.Join(base, now.Format("2006_01_02_15_04"))
}

// CSVSink writes each table to Dir/<name>.csv with a header row.
type CSVSink struct {
	Dir    string
	Logger *logging.Logger
}

// NewCSVSink creates a sink writing into dir. The directory is created on
// first write.
func NewCSVSink(dir string, logger *logging.Logger) *CSVSink {
	return &CSVSink{Dir: dir, Logger: logger}
}

func (s *CSVSink) Write(ctx context.Context, tables []Table) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %s", s.Dir)
	}

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(s.Dir, t.Name+".csv")
		if err := writeCSV(path, t); err != nil {
			return errors.Wrapf(err, "write table %s", t.Name)
		}
		s.Logger.Info("Table written", "table", t.Name, "rows", len(t.Rows), "path", path)
	}
	return nil
}

func writeCSV(path string, t Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return err
	}
	return w.Error()
}
