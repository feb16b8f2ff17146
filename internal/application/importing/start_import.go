package importing

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

type StartImportInput struct {
	SourcePath string
	Mapping    ColumnMapping
	Settings   domain.ImportSettings
}

type StartImportOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type StartImport interface {
	Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error)
}

type importJobEnqueuer interface {
	Enqueue(ctx context.Context, sourcePath, mappingJSON, settingsJSON string) (string, error)
}

type startImport struct {
	importJobRepo importJobEnqueuer
}

func NewStartImport(importJobRepo importJobEnqueuer) StartImport {
	return &startImport{importJobRepo: importJobRepo}
}

func (uc *startImport) Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".xlsx", ".csv":
	default:
		return StartImportOutput{}, ErrInvalidImportSource
	}
	if err := in.Settings.Validate(); err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrInvalidImportSettings, err)
	}

	mappingJSON, err := json.Marshal(in.Mapping)
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("encode mapping: %w", err)
	}
	settingsJSON, err := json.Marshal(in.Settings)
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("encode settings: %w", err)
	}

	jobID, err := uc.importJobRepo.Enqueue(ctx, sourcePath, string(mappingJSON), string(settingsJSON))
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	return StartImportOutput{
		JobID:  jobID,
		Status: "queued",
	}, nil
}
