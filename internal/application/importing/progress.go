package importing

import (
	"sync"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

// ProgressSink consumes progress snapshots as the run advances. Publishing
// happens once before the first chunk and once after every settled chunk.
type ProgressSink interface {
	Publish(p domain.ImportProgress)
}

// ProgressSinkFunc adapts a function to a ProgressSink.
type ProgressSinkFunc func(p domain.ImportProgress)

func (f ProgressSinkFunc) Publish(p domain.ImportProgress) { f(p) }

// NopSink discards snapshots.
var NopSink ProgressSink = ProgressSinkFunc(func(domain.ImportProgress) {})

// progressTracker is the single aggregation point for the run counters.
// Per-item commits run in parallel inside a chunk; every increment goes
// through the mutex here so no update is lost.
type progressTracker struct {
	mu       sync.Mutex
	p        domain.ImportProgress
	reporter *ErrorReporter
}

func newProgressTracker(total int, reporter *ErrorReporter) *progressTracker {
	return &progressTracker{
		p:        domain.ImportProgress{Total: int64(total), IsProcessing: true},
		reporter: reporter,
	}
}

// reject records a pre-commit row failure. The row counts as processed and
// skipped plus its specific counter.
func (t *progressTracker) reject(e domain.ImportError) {
	t.reporter.Record(e)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Processed++
	t.p.Skipped++
	switch e.Reason {
	case domain.ReasonFieldRequired:
		t.p.Invalid++
	case domain.ReasonBranchNotFound:
		t.p.BranchNotFound++
	case domain.ReasonDuplicate, domain.ReasonDuplicateNPA:
		t.p.Duplicate++
	default:
		t.p.SystemErrors++
	}
}

func (t *progressTracker) inserted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Processed++
	t.p.Inserted++
}

func (t *progressTracker) updated() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Processed++
	t.p.Updated++
}

func (t *progressTracker) duplicate(e domain.ImportError) {
	t.reporter.Record(e)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Processed++
	t.p.Duplicate++
}

func (t *progressTracker) systemError(e domain.ImportError) {
	t.reporter.Record(e)
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.Processed++
	t.p.SystemErrors++
}

func (t *progressTracker) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.p.IsProcessing = false
	t.p.IsDone = true
}

func (t *progressTracker) snapshot() domain.ImportProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}
