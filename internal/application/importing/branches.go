package importing

import (
	"context"
	"fmt"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

type branchCreator interface {
	Create(ctx context.Context, name string) (domain.Branch, error)
}

// branchResolver resolves branch names to ids against a map prefetched once
// per run. Created branches are added to the map so later rows in the same
// run reuse the id. Resolution runs inside the sequential pass; the map has
// a single owner and needs no locking.
type branchResolver struct {
	byKey    map[string]string
	creator  branchCreator
	settings domain.ImportSettings
}

func newBranchResolver(branches []domain.Branch, creator branchCreator, settings domain.ImportSettings) *branchResolver {
	byKey := make(map[string]string, len(branches))
	for _, b := range branches {
		byKey[domain.Fold(b.Name)] = b.ID
	}
	return &branchResolver{byKey: byKey, creator: creator, settings: settings}
}

// Resolve fills rec.BranchID. A record without a branch-name cell resolves
// to no branch, which is not an error. With ForceAdminBranch set the name
// cell is ignored entirely and the operator's branch id is used.
func (r *branchResolver) Resolve(ctx context.Context, rec *domain.Record) *domain.ImportError {
	if r.settings.ForceAdminBranch {
		id := r.settings.AdminBranchID
		rec.BranchID = &id
		return nil
	}

	name := rec.Text(domain.FieldCabang)
	if name == "" {
		return nil
	}

	key := domain.Fold(name)
	if id, ok := r.byKey[key]; ok {
		rec.BranchID = &id
		return nil
	}

	if !r.settings.CreateBranchIfMissing {
		return &domain.ImportError{
			RowIndex: rec.RowIndex,
			Reason:   domain.ReasonBranchNotFound,
			Details:  fmt.Sprintf("cabang %q tidak ditemukan", name),
			Snapshot: *rec,
		}
	}

	branch, err := r.creator.Create(ctx, name)
	if err != nil {
		return &domain.ImportError{
			RowIndex: rec.RowIndex,
			Reason:   domain.ReasonCommitError,
			Details:  fmt.Sprintf("buat cabang %q: %v", name, err),
			Snapshot: *rec,
		}
	}
	r.byKey[key] = branch.ID
	rec.BranchID = &branch.ID
	return nil
}
