package importing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"sync"
	"time"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

// ErrorReporter collects per-row failures in encounter order and renders
// them as a CSV report the operator can correct and re-upload.
type ErrorReporter struct {
	schema domain.Schema

	mu     sync.Mutex
	errors []domain.ImportError
}

func NewErrorReporter(schema domain.Schema) *ErrorReporter {
	return &ErrorReporter{schema: schema}
}

func (r *ErrorReporter) Record(e domain.ImportError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, e)
}

func (r *ErrorReporter) Errors() []domain.ImportError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ImportError, len(r.errors))
	copy(out, r.errors)
	return out
}

func (r *ErrorReporter) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// ExportFilename builds a filesystem-safe timestamped report name, e.g.
// import-errors-20260115-093042.csv.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("import-errors-%s.csv", now.Format("20060102-150405"))
}

// Export renders the report: header row, then one row per error with the
// row index, reason code, details and the raw field snapshot in schema
// order. Column order is deterministic.
func (r *ErrorReporter) Export() ([]byte, error) {
	r.mu.Lock()
	errs := make([]domain.ImportError, len(r.errors))
	copy(errs, r.errors)
	r.mu.Unlock()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"baris", "kode", "keterangan"}
	for _, field := range r.schema.Fields {
		header = append(header, string(field.Key))
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write report header: %w", err)
	}

	for _, e := range errs {
		row := []string{strconv.Itoa(e.RowIndex), string(e.Reason), e.Details}
		for _, field := range r.schema.Fields {
			row = append(row, e.Snapshot.CellString(field.Key))
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush report: %w", err)
	}
	return buf.Bytes(), nil
}
