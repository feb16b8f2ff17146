package importing

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

type GetImportInput struct {
	JobID string
}

type GetImportOutput struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	Progress     domain.ImportProgress `json:"progress"`
	ErrorMessage string                `json:"error_message,omitempty"`
	HasReport    bool                  `json:"has_report"`
	ReportPath   string                `json:"-"`
}

type GetImport interface {
	Execute(ctx context.Context, in GetImportInput) (GetImportOutput, error)
}

type importJobReader interface {
	Get(ctx context.Context, jobID string) (domain.ImportJobStatus, error)
}

type getImport struct {
	importJobRepo importJobReader
}

func NewGetImport(importJobRepo importJobReader) GetImport {
	return &getImport{importJobRepo: importJobRepo}
}

func (uc *getImport) Execute(ctx context.Context, in GetImportInput) (GetImportOutput, error) {
	status, err := uc.importJobRepo.Get(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, ErrImportJobNotFound) {
			return GetImportOutput{}, ErrImportJobNotFound
		}
		return GetImportOutput{}, fmt.Errorf("%w: %v", ErrGetImportJob, err)
	}

	return GetImportOutput{
		ID:           status.ID,
		Status:       status.Status,
		Progress:     status.Progress,
		ErrorMessage: status.ErrorMessage,
		HasReport:    status.ReportPath != "",
		ReportPath:   status.ReportPath,
	}, nil
}
