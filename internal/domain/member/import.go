package member

import "fmt"

type ImportMode string

const (
	ModeInsert ImportMode = "insert"
	ModeUpsert ImportMode = "upsert"
	ModeSkip   ImportMode = "skip"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(s) {
	case ModeInsert, ModeUpsert, ModeSkip:
		return ImportMode(s), nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

type ImportSettings struct {
	Mode                  ImportMode `json:"mode"`
	CreateBranchIfMissing bool       `json:"create_branch_if_missing"`
	ForceAdminBranch      bool       `json:"force_admin_branch"`
	AdminBranchID         string     `json:"admin_branch_id"`
}

func (s ImportSettings) Validate() error {
	if _, err := ParseImportMode(string(s.Mode)); err != nil {
		return err
	}
	if s.ForceAdminBranch && s.AdminBranchID == "" {
		return ErrAdminBranchRequired
	}
	return nil
}

type ReasonCode string

const (
	ReasonInsufficientData  ReasonCode = "INSUFFICIENT_DATA"
	ReasonMappingIncomplete ReasonCode = "MAPPING_INCOMPLETE"
	ReasonFieldRequired     ReasonCode = "FIELD_REQUIRED"
	ReasonBranchNotFound    ReasonCode = "CABANG_TIDAK_DITEMUKAN"
	ReasonDuplicate         ReasonCode = "DUPLICATE"
	ReasonDuplicateNPA      ReasonCode = "DUPLICATE_NPA"
	ReasonCommitConflict    ReasonCode = "COMMIT_CONFLICT"
	ReasonCommitError       ReasonCode = "COMMIT_ERROR"
)

// ImportError is one per-row failure. RowIndex is the 1-based data row
// position plus the header row, so the first data row reports 2.
type ImportError struct {
	RowIndex int
	Reason   ReasonCode
	Details  string
	Snapshot Record
}

// ImportProgress is the monotonically advancing run summary. Skipped counts
// every row excluded before commit (invalid, duplicate pre-pass and branch
// misses).
type ImportProgress struct {
	Total          int64 `json:"total"`
	Processed      int64 `json:"processed"`
	Inserted       int64 `json:"inserted"`
	Updated        int64 `json:"updated"`
	Skipped        int64 `json:"skipped"`
	Duplicate      int64 `json:"duplicate"`
	Invalid        int64 `json:"invalid"`
	BranchNotFound int64 `json:"branch_not_found"`
	SystemErrors   int64 `json:"system_errors"`
	IsProcessing   bool  `json:"is_processing"`
	IsDone         bool  `json:"is_done"`
}

// ImportJob is a queued import run. Mapping and settings travel with the job
// as JSON so any worker can pick it up.
type ImportJob struct {
	ID           string
	SourcePath   string
	MappingJSON  string
	SettingsJSON string
	Status       string
	Attempts     int
	MaxAttempts  int
}

// ImportSummary is written back when a job finishes.
type ImportSummary struct {
	Progress   ImportProgress
	ReportPath string
}

// ImportJobStatus is the operator-facing view of a job.
type ImportJobStatus struct {
	ID           string
	Status       string
	Progress     ImportProgress
	ErrorMessage string
	ReportPath   string
}
