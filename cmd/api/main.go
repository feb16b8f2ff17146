package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/danisworo/member-import/internal/application/importing"
	"github.com/danisworo/member-import/internal/bootstrap"
	infrafile "github.com/danisworo/member-import/internal/infrastructure/file"
	"github.com/danisworo/member-import/internal/infrastructure/repository"
)

func main() {
	zlog, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}

	port := getEnv("PORT", "8080")

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		logger.Fatalw("failed to connect database", "error", err)
	}

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		logger.Fatalw("failed to create pgx pool", "error", err)
	}
	defer pool.Close()

	server := bootstrap.NewHTTPServer(db)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	importJobRepo := repository.NewImportJobRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	memberRepo := repository.NewMemberRepository(pool)
	sourceReader := infrafile.NewLocalSource(getEnv("IMPORT_BASE_DIR", "."))
	decoder := infrafile.NewDecoder()
	reportStore := infrafile.NewReportStore(getEnv("IMPORT_REPORT_DIR", "reports"))

	pipeline := importing.NewPipeline(branchRepo, memberRepo, importing.PipelineConfig{
		ChunkSize:     parseIntEnv("IMPORT_CHUNK_SIZE", importing.DefaultChunkSize),
		CommitWorkers: parseIntEnv("IMPORT_COMMIT_WORKERS", importing.DefaultCommitWorkers),
	}, logger)

	worker := importing.NewImportWorker(importJobRepo, sourceReader, decoder, pipeline, reportStore, importing.ImportWorkerConfig{
		Workers:       parseIntEnv("IMPORT_JOB_WORKERS", 2),
		LeaseDuration: time.Duration(parseIntEnv("IMPORT_JOB_LEASE_SECONDS", 60)) * time.Second,
	}, logger)
	worker.Start(workerCtx)

	go func() {
		if err := server.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalw("graceful shutdown failed", "error", err)
	}
}

func parseIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
