package importing

import (
	"errors"
	"fmt"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

var (
	// ErrInsufficientData means the decoded table is missing a header row or
	// has no data rows. Fatal: no stage runs.
	ErrInsufficientData = errors.New("insufficient data: need one header row and at least one data row")

	ErrInvalidImportSource   = errors.New("invalid import source")
	ErrInvalidImportSettings = errors.New("invalid import settings")
	ErrEnqueueImportJob      = errors.New("failed to enqueue import job")
	ErrImportJobNotFound     = domain.ErrImportJobNotFound
	ErrGetImportJob          = errors.New("failed to get import job")
)

// MappingIncompleteError is the fatal validation failure of the column
// mapping. No rows are processed when it is returned.
type MappingIncompleteError struct {
	Missing []domain.FieldKey
}

func (e *MappingIncompleteError) Error() string {
	return fmt.Sprintf("mapping incomplete: missing fields %v", e.Missing)
}

// IsFatal reports whether err aborts a run before any row processing.
func IsFatal(err error) bool {
	var mie *MappingIncompleteError
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, domain.ErrAdminBranchRequired) ||
		errors.As(err, &mie)
}
