package importing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

// PipelineConfig tunes the commit stage.
type PipelineConfig struct {
	ChunkSize     int
	CommitWorkers int
}

// Pipeline runs one import end to end: decode output in, committed members
// and an error report out. Mapping validation failures and an empty table
// are fatal and abort before any row is touched; everything after that is
// per-row or per-item and the run always finishes with a summary.
type Pipeline struct {
	branches domain.BranchRepository
	members  domain.MemberRepository
	cfg      PipelineConfig
	logger   *zap.SugaredLogger
}

func NewPipeline(branches domain.BranchRepository, members domain.MemberRepository, cfg PipelineConfig, logger *zap.SugaredLogger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{branches: branches, members: members, cfg: cfg, logger: logger}
}

// RunResult carries the final counters and the reporter holding every
// per-row error, ready for export.
type RunResult struct {
	Progress domain.ImportProgress
	Reporter *ErrorReporter
}

func (p *Pipeline) Run(ctx context.Context, table domain.RawTable, mapping ColumnMapping, settings domain.ImportSettings, schema domain.Schema, sink ProgressSink) (RunResult, error) {
	if sink == nil {
		sink = NopSink
	}
	reporter := NewErrorReporter(schema)
	result := RunResult{Reporter: reporter}

	session := NewSession(schema)
	if err := session.Upload(table); err != nil {
		return result, err
	}
	if err := session.SetMapping(mapping); err != nil {
		return result, err
	}
	if v := session.Validate(); !v.OK {
		return result, &MappingIncompleteError{Missing: v.MissingFields}
	}
	if err := settings.Validate(); err != nil {
		return result, err
	}
	if err := session.BeginCommit(); err != nil {
		return result, err
	}

	existingKeys, err := p.members.ListIdentityKeys(ctx)
	if err != nil {
		return result, fmt.Errorf("prefetch identity keys: %w", err)
	}
	branches, err := p.branches.ListAll(ctx)
	if err != nil {
		return result, fmt.Errorf("prefetch branches: %w", err)
	}

	checker := newDuplicateChecker(existingKeys)
	resolver := newBranchResolver(branches, p.branches, settings)
	tracker := newProgressTracker(len(table.Rows), reporter)
	sink.Publish(tracker.snapshot())

	// Normalization, identity keys, the in-batch duplicate pre-pass and
	// branch resolution run as one ordered pass: the batch key set and the
	// branch map are mutated in row order.
	cols := bindColumns(table.Headers, mapping, schema)
	valid := make([]domain.Record, 0, len(table.Rows))
	for i, row := range table.Rows {
		rowIndex := i + 2 // 1-based data position plus the header row

		rec, rowErr := normalizeRow(row, cols, schema, rowIndex)
		if rowErr != nil {
			tracker.reject(*rowErr)
			continue
		}

		key, fromNPA := IdentityKey(rec)
		rec.IdentityKey = key
		rec.KeyFromNPA = fromNPA
		if proceed, reason := checker.Check(key, fromNPA, settings.Mode); !proceed {
			tracker.reject(domain.ImportError{
				RowIndex: rowIndex,
				Reason:   reason,
				Details:  fmt.Sprintf("kunci identitas %q sudah ada", key),
				Snapshot: rec,
			})
			continue
		}

		if branchErr := resolver.Resolve(ctx, &rec); branchErr != nil {
			tracker.reject(*branchErr)
			continue
		}

		valid = append(valid, rec)
	}

	committer := newBatchCommitter(p.members, p.cfg.ChunkSize, p.cfg.CommitWorkers)
	if err := committer.Commit(ctx, valid, settings, tracker, sink); err != nil {
		// Cancelled between chunks: committed chunks stay persisted and the
		// partial counters are still meaningful.
		tracker.finish()
		result.Progress = tracker.snapshot()
		sink.Publish(result.Progress)
		p.logger.Infow("import cancelled", "processed", result.Progress.Processed, "total", result.Progress.Total)
		return result, err
	}

	tracker.finish()
	result.Progress = tracker.snapshot()
	sink.Publish(result.Progress)
	session.Finish()

	p.logger.Infow("import finished",
		"total", result.Progress.Total,
		"inserted", result.Progress.Inserted,
		"updated", result.Progress.Updated,
		"duplicate", result.Progress.Duplicate,
		"invalid", result.Progress.Invalid,
		"branch_not_found", result.Progress.BranchNotFound,
		"system_errors", result.Progress.SystemErrors,
	)
	return result, nil
}
