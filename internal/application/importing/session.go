package importing

import (
	"errors"
	"fmt"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

// Step is the import wizard state. Transitions are guarded: a session cannot
// start committing without a validated mapping.
type Step string

const (
	StepUploading  Step = "uploading"
	StepMapping    Step = "mapping"
	StepCommitting Step = "committing"
	StepDone       Step = "done"
)

var errMappingNotValidated = errors.New("mapping has not been validated")

// Session carries the state of one import run through its stages. It
// replaces ambient wizard state: everything a stage needs travels here.
type Session struct {
	step    Step
	schema  domain.Schema
	table   domain.RawTable
	mapping ColumnMapping
	valid   bool
}

func NewSession(schema domain.Schema) *Session {
	return &Session{step: StepUploading, schema: schema}
}

func (s *Session) Step() Step             { return s.step }
func (s *Session) Table() domain.RawTable { return s.table }
func (s *Session) Mapping() ColumnMapping { return s.mapping }
func (s *Session) Schema() domain.Schema  { return s.schema }

// Upload accepts the decoded table and moves to the mapping step. A table
// without a header row or without data rows is fatal.
func (s *Session) Upload(table domain.RawTable) error {
	if s.step != StepUploading {
		return s.stepError(StepUploading)
	}
	if len(table.Headers) == 0 || len(table.Rows) == 0 {
		return ErrInsufficientData
	}
	s.table = table
	s.step = StepMapping
	return nil
}

// AutoMap replaces the current mapping with the heuristic one. Manual edits
// made earlier are discarded, not merged.
func (s *Session) AutoMap() (ColumnMapping, error) {
	if s.step != StepMapping {
		return nil, s.stepError(StepMapping)
	}
	s.mapping = AutoMap(s.table.Headers, s.schema)
	s.valid = false
	return s.mapping, nil
}

// SetMapping replaces the mapping wholesale with a manual one.
func (s *Session) SetMapping(mapping ColumnMapping) error {
	if s.step != StepMapping {
		return s.stepError(StepMapping)
	}
	if err := CheckMapping(mapping, s.table.Headers, s.schema); err != nil {
		return err
	}
	s.mapping = mapping
	s.valid = false
	return nil
}

// Validate runs the required-field rule against the current mapping and
// records the outcome for the commit guard.
func (s *Session) Validate() MappingValidation {
	v := ValidateMapping(s.mapping, s.schema)
	s.valid = v.OK
	return v
}

// BeginCommit transitions to the committing step. It fails unless the
// mapping passed validation since it was last changed.
func (s *Session) BeginCommit() error {
	if s.step != StepMapping {
		return s.stepError(StepMapping)
	}
	if !s.valid {
		return errMappingNotValidated
	}
	s.step = StepCommitting
	return nil
}

func (s *Session) Finish() {
	s.step = StepDone
}

func (s *Session) stepError(want Step) error {
	return fmt.Errorf("session is in step %q, expected %q", s.step, want)
}
