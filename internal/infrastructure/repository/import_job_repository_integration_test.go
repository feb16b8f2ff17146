package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/danisworo/member-import/internal/domain/member"
	"github.com/danisworo/member-import/internal/infrastructure/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	return db
}

func createImportJobsTable(t *testing.T, db *gorm.DB) {
	t.Helper()

	createSQL := `
    CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
    CREATE TABLE IF NOT EXISTS import_jobs (
      id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
      source_path TEXT NOT NULL,
      mapping_json TEXT NOT NULL,
      settings_json TEXT NOT NULL,
      status TEXT NOT NULL,
      total_count BIGINT NOT NULL DEFAULT 0,
      processed_count BIGINT NOT NULL DEFAULT 0,
      inserted_count BIGINT NOT NULL DEFAULT 0,
      updated_count BIGINT NOT NULL DEFAULT 0,
      skipped_count BIGINT NOT NULL DEFAULT 0,
      duplicate_count BIGINT NOT NULL DEFAULT 0,
      invalid_count BIGINT NOT NULL DEFAULT 0,
      branch_not_found_count BIGINT NOT NULL DEFAULT 0,
      system_error_count BIGINT NOT NULL DEFAULT 0,
      attempts INT NOT NULL DEFAULT 0,
      max_attempts INT NOT NULL DEFAULT 5,
      error_message TEXT,
      report_path TEXT,
      heartbeat_at TIMESTAMPTZ,
      lease_expires_at TIMESTAMPTZ,
      started_at TIMESTAMPTZ,
      finished_at TIMESTAMPTZ,
      created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
      updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
      CHECK (status IN ('queued','running','succeeded','failed'))
    );
    `
	if err := db.Exec(createSQL).Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
}

func TestImportJobRepositoryEnqueueIntegration(t *testing.T) {
	db := openTestDB(t)
	createImportJobsTable(t, db)

	repo := repository.NewImportJobRepository(db)

	jobID, err := repo.Enqueue(context.Background(), "members.xlsx", `{"Nama":"nama"}`, `{"mode":"insert"}`)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if strings.TrimSpace(jobID) == "" {
		t.Fatal("expected non-empty job id")
	}

	status, err := repo.Get(context.Background(), jobID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if status.Status != "queued" {
		t.Fatalf("unexpected status: %q", status.Status)
	}
}

func TestImportJobRepositoryLifecycleIntegration(t *testing.T) {
	db := openTestDB(t)
	createImportJobsTable(t, db)

	repo := repository.NewImportJobRepository(db)
	ctx := context.Background()

	jobID, err := repo.Enqueue(ctx, "members.csv", `{}`, `{"mode":"insert"}`)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	claimed, err := repo.ClaimNext(ctx, time.Minute)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected a claimed job")
	}
	if claimed.Status != "running" || claimed.Attempts != 1 {
		t.Fatalf("unexpected claimed job: %+v", claimed)
	}

	if err := repo.Heartbeat(ctx, claimed.ID, time.Minute); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}

	progress := domain.ImportProgress{Total: 3, Processed: 2, Inserted: 1, Skipped: 1, Invalid: 1}
	if err := repo.UpdateProgress(ctx, claimed.ID, progress); err != nil {
		t.Fatalf("update progress failed: %v", err)
	}

	summary := domain.ImportSummary{
		Progress:   domain.ImportProgress{Total: 3, Processed: 3, Inserted: 2, Skipped: 1, Invalid: 1, IsDone: true},
		ReportPath: "/reports/import-errors-20260115-093042.csv",
	}
	if err := repo.Complete(ctx, claimed.ID, summary); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	status, err := repo.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if status.Status != "succeeded" {
		t.Fatalf("unexpected status: %q", status.Status)
	}
	if status.Progress.Inserted != 2 || !status.Progress.IsDone {
		t.Fatalf("unexpected progress: %+v", status.Progress)
	}
	if status.ReportPath == "" {
		t.Fatal("report path lost on complete")
	}
}

func TestImportJobRepositoryRequeueAndFailIntegration(t *testing.T) {
	db := openTestDB(t)
	createImportJobsTable(t, db)

	repo := repository.NewImportJobRepository(db)
	ctx := context.Background()

	jobID, err := repo.Enqueue(ctx, "members.csv", `{}`, `{"mode":"insert"}`)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	claimed, err := repo.ClaimNext(ctx, time.Minute)
	if err != nil || claimed == nil {
		t.Fatalf("claim failed: %v %v", claimed, err)
	}

	if err := repo.Requeue(ctx, claimed.ID, "storage offline"); err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	status, err := repo.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if status.Status != "queued" || status.ErrorMessage != "storage offline" {
		t.Fatalf("unexpected status after requeue: %+v", status)
	}

	if err := repo.Fail(ctx, claimed.ID, "corrupt file"); err != nil {
		t.Fatalf("fail failed: %v", err)
	}
	status, err = repo.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if status.Status != "failed" || !status.Progress.IsDone {
		t.Fatalf("unexpected status after fail: %+v", status)
	}
}

func TestImportJobRepositoryGetMissingIntegration(t *testing.T) {
	db := openTestDB(t)
	createImportJobsTable(t, db)

	repo := repository.NewImportJobRepository(db)

	_, err := repo.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	if err != domain.ErrImportJobNotFound {
		t.Fatalf("expected ErrImportJobNotFound, got %v", err)
	}
}
