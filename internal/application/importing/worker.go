package importing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

type TableDecoder interface {
	Decode(r io.Reader, name string) (domain.RawTable, error)
}

// ReportStore persists an exported error report and returns its path.
type ReportStore interface {
	Save(filename string, data []byte) (string, error)
}

type importWorkerJobRepo interface {
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error)
	Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error
	UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error
	Complete(ctx context.Context, jobID string, summary domain.ImportSummary) error
	Requeue(ctx context.Context, jobID string, reason string) error
	Fail(ctx context.Context, jobID string, reason string) error
}

type ImportWorkerConfig struct {
	Workers           int
	PollInterval      time.Duration
	LeaseDuration     time.Duration
	HeartbeatInterval time.Duration
}

// ImportWorker polls the job queue and drives the pipeline for each claimed
// job. Infrastructure failures requeue the job up to its attempt budget;
// fatal pre-processing failures (bad table, incomplete mapping, invalid
// settings) fail it immediately since a retry cannot fix the file.
type ImportWorker struct {
	repo     importWorkerJobRepo
	source   ImportSource
	decoder  TableDecoder
	pipeline *Pipeline
	reports  ReportStore
	cfg      ImportWorkerConfig
	logger   *zap.SugaredLogger

	once sync.Once
}

func NewImportWorker(repo importWorkerJobRepo, source ImportSource, decoder TableDecoder, pipeline *Pipeline, reports ReportStore, cfg ImportWorkerConfig, logger *zap.SugaredLogger) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = 60 * time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = cfg.LeaseDuration / 2
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	return &ImportWorker{
		repo:     repo,
		source:   source,
		decoder:  decoder,
		pipeline: pipeline,
		reports:  reports,
		cfg:      cfg,
		logger:   logger,
	}
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			go w.workerLoop(ctx)
		}
	})
}

func (w *ImportWorker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx, w.cfg.LeaseDuration)
		if err != nil {
			w.logger.Errorw("claim next import job failed", "error", err)
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if err := w.ProcessJob(ctx, *job); err != nil {
			w.logger.Errorw("process import job failed", "job_id", job.ID, "error", err)
		}
	}
}

func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ImportJob) error {
	var mapping ColumnMapping
	if err := json.Unmarshal([]byte(job.MappingJSON), &mapping); err != nil {
		return w.failPermanently(ctx, job, fmt.Errorf("decode job mapping: %w", err))
	}
	var settings domain.ImportSettings
	if err := json.Unmarshal([]byte(job.SettingsJSON), &settings); err != nil {
		return w.failPermanently(ctx, job, fmt.Errorf("decode job settings: %w", err))
	}

	reader, err := w.source.Open(ctx, job.SourcePath)
	if err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("open import source: %w", err))
	}
	defer reader.Close()

	table, err := w.decoder.Decode(reader, job.SourcePath)
	if err != nil {
		return w.failPermanently(ctx, job, fmt.Errorf("decode import source: %w", err))
	}

	// The lease is renewed on a fixed interval for the whole run, so a chunk
	// that takes longer than the lease cannot lose the job to another worker.
	heartbeatCtx, stopHeartbeat := context.WithCancel(ctx)
	defer stopHeartbeat()
	go w.heartbeatLoop(heartbeatCtx, job.ID)

	// Each chunk publish also renews the lease.
	sink := ProgressSinkFunc(func(p domain.ImportProgress) {
		if err := w.repo.UpdateProgress(ctx, job.ID, p); err != nil {
			w.logger.Warnw("update job progress failed", "job_id", job.ID, "error", err)
		}
		if err := w.repo.Heartbeat(ctx, job.ID, w.cfg.LeaseDuration); err != nil {
			w.logger.Warnw("job heartbeat failed", "job_id", job.ID, "error", err)
		}
	})

	result, err := w.pipeline.Run(ctx, table, mapping, settings, domain.DefaultSchema(), sink)
	if err != nil {
		if IsFatal(err) {
			return w.failPermanently(ctx, job, err)
		}
		return w.onProcessingError(ctx, job, err)
	}

	summary := domain.ImportSummary{Progress: result.Progress}
	if result.Reporter.Len() > 0 {
		data, exportErr := result.Reporter.Export()
		if exportErr != nil {
			return w.onProcessingError(ctx, job, fmt.Errorf("export error report: %w", exportErr))
		}
		path, saveErr := w.reports.Save(ExportFilename(time.Now()), data)
		if saveErr != nil {
			return w.onProcessingError(ctx, job, fmt.Errorf("save error report: %w", saveErr))
		}
		summary.ReportPath = path
	}

	if err := w.repo.Complete(ctx, job.ID, summary); err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("complete job: %w", err))
	}

	return nil
}

func (w *ImportWorker) heartbeatLoop(ctx context.Context, jobID string) {
	ticker := time.NewTicker(w.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.repo.Heartbeat(ctx, jobID, w.cfg.LeaseDuration); err != nil {
				w.logger.Warnw("job heartbeat failed", "job_id", jobID, "error", err)
			}
		}
	}
}

func (w *ImportWorker) failPermanently(ctx context.Context, job domain.ImportJob, err error) error {
	if failErr := w.repo.Fail(ctx, job.ID, truncateReason(err.Error())); failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	return err
}

func (w *ImportWorker) onProcessingError(ctx context.Context, job domain.ImportJob, err error) error {
	reason := truncateReason(err.Error())
	if job.Attempts < job.MaxAttempts {
		if requeueErr := w.repo.Requeue(ctx, job.ID, reason); requeueErr != nil {
			return fmt.Errorf("%v; requeue failed: %w", err, requeueErr)
		}
		return err
	}

	if failErr := w.repo.Fail(ctx, job.ID, reason); failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
