package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/danisworo/member-import/internal/application/importing"
	domain "github.com/danisworo/member-import/internal/domain/member"
	infrafile "github.com/danisworo/member-import/internal/infrastructure/file"
	"github.com/danisworo/member-import/internal/infrastructure/repository"
)

type runFlags struct {
	file           string
	mapping        string
	mode           string
	createBranches bool
	forceBranch    string
	chunkSize      int
	workers        int
	databaseURL    string
}

func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one import against the store",
		Long: `Runs the full import pipeline on a spreadsheet and prints the final
progress summary as JSON. The run exits 0 when it completes, even with
row-level errors; only fatal pre-processing failures exit 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.file, "file", "", "path to the .xlsx or .csv file (required)")
	cmd.Flags().StringVar(&flags.mapping, "mapping", "", "column mapping as JSON, or a path to a JSON file; omit to auto-map")
	cmd.Flags().StringVar(&flags.mode, "mode", "insert", "conflict policy: insert, upsert or skip")
	cmd.Flags().BoolVar(&flags.createBranches, "create-branches", false, "create branches missing from the store")
	cmd.Flags().StringVar(&flags.forceBranch, "force-branch", "", "assign every record to this branch id, ignoring the branch column")
	cmd.Flags().IntVar(&flags.chunkSize, "chunk-size", importing.DefaultChunkSize, "records per commit chunk")
	cmd.Flags().IntVar(&flags.workers, "workers", importing.DefaultCommitWorkers, "parallel commits per chunk")
	cmd.Flags().StringVar(&flags.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres connection string (defaults to DATABASE_URL)")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(ctx context.Context, flags runFlags) error {
	zlog, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	mode, err := domain.ParseImportMode(flags.mode)
	if err != nil {
		return err
	}
	settings := domain.ImportSettings{
		Mode:                  mode,
		CreateBranchIfMissing: flags.createBranches,
		ForceAdminBranch:      flags.forceBranch != "",
		AdminBranchID:         flags.forceBranch,
	}

	if flags.databaseURL == "" {
		return fmt.Errorf("--database-url or DATABASE_URL is required")
	}

	table, err := decodeFile(flags.file)
	if err != nil {
		return err
	}

	schema := domain.DefaultSchema()
	mapping, err := loadMapping(flags.mapping, table, schema)
	if err != nil {
		return err
	}

	db, err := gorm.Open(postgres.Open(flags.databaseURL), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	pool, err := pgxpool.New(ctx, flags.databaseURL)
	if err != nil {
		return fmt.Errorf("create pgx pool: %w", err)
	}
	defer pool.Close()

	pipeline := importing.NewPipeline(
		repository.NewBranchRepository(db),
		repository.NewMemberRepository(pool),
		importing.PipelineConfig{ChunkSize: flags.chunkSize, CommitWorkers: flags.workers},
		logger,
	)

	sink := importing.ProgressSinkFunc(func(p domain.ImportProgress) {
		logger.Infow("progress", "processed", p.Processed, "total", p.Total)
	})

	result, err := pipeline.Run(ctx, table, mapping, settings, schema, sink)
	if err != nil {
		return err
	}

	if result.Reporter.Len() > 0 {
		data, exportErr := result.Reporter.Export()
		if exportErr != nil {
			logger.Errorw("export error report failed", "error", exportErr)
		} else {
			name := importing.ExportFilename(time.Now())
			if err := os.WriteFile(name, data, 0o644); err != nil {
				logger.Errorw("write error report failed", "error", err)
			} else {
				logger.Infow("error report written", "path", name, "rows", result.Reporter.Len())
			}
		}
	}

	out, err := json.MarshalIndent(result.Progress, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func decodeFile(path string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return infrafile.NewDecoder().Decode(f, filepath.Base(path))
}

// loadMapping reads --mapping as a JSON file path when one exists, as inline
// JSON otherwise, and falls back to auto-mapping when the flag is empty.
func loadMapping(arg string, table domain.RawTable, schema domain.Schema) (importing.ColumnMapping, error) {
	if arg == "" {
		return importing.AutoMap(table.Headers, schema), nil
	}

	raw := []byte(arg)
	if _, err := os.Stat(arg); err == nil {
		raw, err = os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("read mapping file: %w", err)
		}
	}

	var mapping importing.ColumnMapping
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, fmt.Errorf("parse mapping JSON: %w", err)
	}
	return mapping, nil
}
