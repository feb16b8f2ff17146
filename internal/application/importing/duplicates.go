package importing

import (
	domain "github.com/danisworo/member-import/internal/domain/member"
)

// IdentityKey computes the value used to detect whether a row refers to an
// already-known member: the NPA when present, else the folded
// name+workplace composite.
func IdentityKey(rec domain.Record) (key string, fromNPA bool) {
	if npa := rec.Text(domain.FieldNPA); npa != "" {
		return npa, true
	}
	return domain.CompositeKey(rec.Text(domain.FieldNama), rec.Workplace()), false
}

// duplicateChecker holds the prefetched store keys and the keys seen so far
// in this batch. It is not safe for concurrent use; the pipeline runs the
// pre-pass as a single ordered pass.
type duplicateChecker struct {
	existing map[string]struct{}
	batch    map[string]struct{}
}

func newDuplicateChecker(existing map[string]struct{}) *duplicateChecker {
	if existing == nil {
		existing = make(map[string]struct{})
	}
	return &duplicateChecker{
		existing: existing,
		batch:    make(map[string]struct{}),
	}
}

// Check classifies a key under the given mode and records it in the batch
// set. Only skip mode blocks rows here; insert and upsert defer collision
// handling to the committer (unique-constraint conflict and find-then-update
// respectively).
func (c *duplicateChecker) Check(key string, fromNPA bool, mode domain.ImportMode) (proceed bool, reason domain.ReasonCode) {
	_, inStore := c.existing[key]
	_, inBatch := c.batch[key]
	c.batch[key] = struct{}{}

	if mode != domain.ModeSkip || (!inStore && !inBatch) {
		return true, ""
	}
	if fromNPA {
		return false, domain.ReasonDuplicateNPA
	}
	return false, domain.ReasonDuplicate
}
