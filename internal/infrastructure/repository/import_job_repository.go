package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/danisworo/member-import/internal/domain/member"
	"github.com/danisworo/member-import/internal/infrastructure/db/models"
)

type ImportJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Enqueue(ctx context.Context, sourcePath, mappingJSON, settingsJSON string) (string, error) {
	job := models.ImportJob{
		SourcePath:   sourcePath,
		MappingJSON:  mappingJSON,
		SettingsJSON: settingsJSON,
		Status:       "queued",
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return "", fmt.Errorf("create import job: %w", err)
	}

	return job.ID, nil
}

// ClaimNext atomically claims the oldest runnable job: queued, or running
// with an expired lease. SKIP LOCKED keeps concurrent workers off the same
// row. Returns nil when the queue is empty.
func (r *ImportJobRepository) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error) {
	var job models.ImportJob

	err := r.db.WithContext(ctx).Raw(`
UPDATE import_jobs SET
  status = 'running',
  attempts = attempts + 1,
  started_at = COALESCE(started_at, NOW()),
  heartbeat_at = NOW(),
  lease_expires_at = NOW() + ?::interval,
  updated_at = NOW()
WHERE id = (
  SELECT id FROM import_jobs
  WHERE status = 'queued'
     OR (status = 'running' AND lease_expires_at < NOW())
  ORDER BY created_at
  LIMIT 1
  FOR UPDATE SKIP LOCKED
)
RETURNING *
`, intervalLiteral(leaseDuration)).Scan(&job).Error
	if err != nil {
		return nil, fmt.Errorf("claim import job: %w", err)
	}
	if job.ID == "" {
		return nil, nil
	}

	return &domain.ImportJob{
		ID:           job.ID,
		SourcePath:   job.SourcePath,
		MappingJSON:  job.MappingJSON,
		SettingsJSON: job.SettingsJSON,
		Status:       job.Status,
		Attempts:     job.Attempts,
		MaxAttempts:  job.MaxAttempts,
	}, nil
}

func (r *ImportJobRepository) Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ? AND status = 'running'", jobID).
		Updates(map[string]any{
			"heartbeat_at":     gorm.Expr("NOW()"),
			"lease_expires_at": gorm.Expr("NOW() + ?::interval", intervalLiteral(leaseDuration)),
			"updated_at":       gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return fmt.Errorf("heartbeat import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) UpdateProgress(ctx context.Context, jobID string, p domain.ImportProgress) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(progressColumns(p)).Error
	if err != nil {
		return fmt.Errorf("update import job progress: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Complete(ctx context.Context, jobID string, summary domain.ImportSummary) error {
	cols := progressColumns(summary.Progress)
	cols["status"] = "succeeded"
	cols["finished_at"] = gorm.Expr("NOW()")
	if summary.ReportPath != "" {
		cols["report_path"] = summary.ReportPath
	}

	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(cols).Error
	if err != nil {
		return fmt.Errorf("complete import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Requeue(ctx context.Context, jobID string, reason string) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":           "queued",
			"error_message":    reason,
			"lease_expires_at": nil,
			"heartbeat_at":     nil,
			"updated_at":       gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return fmt.Errorf("requeue import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Fail(ctx context.Context, jobID string, reason string) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":        "failed",
			"error_message": reason,
			"finished_at":   gorm.Expr("NOW()"),
			"updated_at":    gorm.Expr("NOW()"),
		}).Error
	if err != nil {
		return fmt.Errorf("fail import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) Get(ctx context.Context, jobID string) (domain.ImportJobStatus, error) {
	var job models.ImportJob

	err := r.db.WithContext(ctx).First(&job, "id = ?", jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ImportJobStatus{}, domain.ErrImportJobNotFound
		}
		return domain.ImportJobStatus{}, fmt.Errorf("get import job: %w", err)
	}

	status := domain.ImportJobStatus{
		ID:     job.ID,
		Status: job.Status,
		Progress: domain.ImportProgress{
			Total:          job.TotalCount,
			Processed:      job.ProcessedCount,
			Inserted:       job.InsertedCount,
			Updated:        job.UpdatedCount,
			Skipped:        job.SkippedCount,
			Duplicate:      job.DuplicateCount,
			Invalid:        job.InvalidCount,
			BranchNotFound: job.BranchNotFoundCount,
			SystemErrors:   job.SystemErrorCount,
			IsProcessing:   job.Status == "running",
			IsDone:         job.Status == "succeeded" || job.Status == "failed",
		},
	}
	if job.ErrorMessage != nil {
		status.ErrorMessage = *job.ErrorMessage
	}
	if job.ReportPath != nil {
		status.ReportPath = *job.ReportPath
	}
	return status, nil
}

func progressColumns(p domain.ImportProgress) map[string]any {
	return map[string]any{
		"total_count":            p.Total,
		"processed_count":        p.Processed,
		"inserted_count":         p.Inserted,
		"updated_count":          p.Updated,
		"skipped_count":          p.Skipped,
		"duplicate_count":        p.Duplicate,
		"invalid_count":          p.Invalid,
		"branch_not_found_count": p.BranchNotFound,
		"system_error_count":     p.SystemErrors,
		"updated_at":             gorm.Expr("NOW()"),
	}
}

func intervalLiteral(d time.Duration) string {
	return fmt.Sprintf("%d seconds", int64(d.Seconds()))
}
