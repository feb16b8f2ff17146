package importing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

const (
	// DefaultChunkSize bounds memory per store round trip and sets the
	// progress-reporting granularity.
	DefaultChunkSize = 500

	// DefaultCommitWorkers bounds per-item parallelism inside a chunk.
	DefaultCommitWorkers = 8
)

type memberStore interface {
	FindByIdentity(ctx context.Context, key string) (*domain.Member, error)
	Insert(ctx context.Context, m domain.Member) error
	Update(ctx context.Context, id string, m domain.Member) error
}

// batchCommitter commits validated records in fixed-size chunks. Items
// inside a chunk run on a bounded worker pool with independent failure
// isolation: one item's failure never aborts the rest. The chunk boundary is
// the synchronization barrier; progress is published and cancellation is
// observed only there. Committed chunks stay persisted on cancel; there is
// no cross-chunk rollback.
type batchCommitter struct {
	store     memberStore
	chunkSize int
	workers   int
}

func newBatchCommitter(store memberStore, chunkSize, workers int) *batchCommitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = DefaultCommitWorkers
	}
	return &batchCommitter{store: store, chunkSize: chunkSize, workers: workers}
}

func (c *batchCommitter) Commit(ctx context.Context, records []domain.Record, settings domain.ImportSettings, tracker *progressTracker, sink ProgressSink) error {
	for start := 0; start < len(records); start += c.chunkSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := start + c.chunkSize
		if end > len(records) {
			end = len(records)
		}

		g := new(errgroup.Group)
		g.SetLimit(c.workers)
		for _, rec := range records[start:end] {
			rec := rec
			g.Go(func() error {
				c.commitOne(ctx, rec, settings, tracker)
				return nil
			})
		}
		g.Wait()

		sink.Publish(tracker.snapshot())
	}
	return nil
}

func (c *batchCommitter) commitOne(ctx context.Context, rec domain.Record, settings domain.ImportSettings, tracker *progressTracker) {
	if settings.Mode == domain.ModeUpsert && c.updateExisting(ctx, rec, tracker) {
		return
	}

	// insert and skip modes insert here; skip-mode rows surviving the
	// pre-pass can still race a concurrent writer, which counts as a
	// duplicate rather than a silent drop.
	m := rec.Member()
	m.ID = uuid.NewString()
	err := c.store.Insert(ctx, m)
	switch {
	case err == nil:
		tracker.inserted()
	case errors.Is(err, domain.ErrDuplicateMember):
		// In upsert mode a parallel commit of the same key can win the
		// insert between the lookup and here. Re-resolve against the store
		// and update the winner's row instead of counting a duplicate.
		if settings.Mode == domain.ModeUpsert && c.updateExisting(ctx, rec, tracker) {
			return
		}
		tracker.duplicate(commitError(rec, domain.ReasonCommitConflict, "anggota sudah terdaftar"))
	default:
		tracker.systemError(commitError(rec, domain.ReasonCommitError, fmt.Sprintf("simpan anggota: %v", err)))
	}
}

// updateExisting settles an upsert against a member already in the store.
// It reports true when the record is done here: updated, or failed as a
// system error. A clean not-found returns false so the caller inserts.
func (c *batchCommitter) updateExisting(ctx context.Context, rec domain.Record, tracker *progressTracker) bool {
	existing, err := c.store.FindByIdentity(ctx, rec.IdentityKey)
	switch {
	case errors.Is(err, domain.ErrMemberNotFound):
		return false
	case err != nil:
		tracker.systemError(commitError(rec, domain.ReasonCommitError, fmt.Sprintf("cari anggota: %v", err)))
		return true
	}

	if err := c.store.Update(ctx, existing.ID, rec.Member()); err != nil {
		tracker.systemError(commitError(rec, domain.ReasonCommitError, fmt.Sprintf("perbarui anggota: %v", err)))
		return true
	}
	tracker.updated()
	return true
}

func commitError(rec domain.Record, reason domain.ReasonCode, details string) domain.ImportError {
	return domain.ImportError{
		RowIndex: rec.RowIndex,
		Reason:   reason,
		Details:  details,
		Snapshot: rec,
	}
}
