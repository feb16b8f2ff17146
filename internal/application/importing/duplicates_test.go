package importing

import (
	"testing"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

func recordWith(fields map[domain.FieldKey]any) domain.Record {
	rec := domain.NewRecord(2)
	for k, v := range fields {
		rec.Fields[k] = v
	}
	return rec
}

func TestIdentityKeyPrefersNPA(t *testing.T) {
	t.Parallel()

	rec := recordWith(map[domain.FieldKey]any{
		domain.FieldNPA:         "12345678",
		domain.FieldNama:        "Ani Susanti",
		domain.FieldTempatTugas: "SMA 1",
	})

	key, fromNPA := IdentityKey(rec)
	if key != "12345678" || !fromNPA {
		t.Fatalf("expected NPA key, got %q (fromNPA=%v)", key, fromNPA)
	}
}

func TestIdentityKeyCompositeFoldsNameAndWorkplace(t *testing.T) {
	t.Parallel()

	a := recordWith(map[domain.FieldKey]any{
		domain.FieldNama:        "Ani  Susanti",
		domain.FieldTempatTugas: "SMA   Negeri 1",
	})
	b := recordWith(map[domain.FieldKey]any{
		domain.FieldNama:     "ani susanti",
		domain.FieldInstansi: "sma negeri 1",
	})

	keyA, fromNPA := IdentityKey(a)
	keyB, _ := IdentityKey(b)
	if fromNPA {
		t.Fatal("composite key must not claim NPA origin")
	}
	if keyA != keyB {
		t.Fatalf("folded keys differ: %q vs %q", keyA, keyB)
	}
}

func TestDuplicateCheckerSkipMode(t *testing.T) {
	t.Parallel()

	checker := newDuplicateChecker(map[string]struct{}{"88888888": {}})

	if proceed, reason := checker.Check("88888888", true, domain.ModeSkip); proceed || reason != domain.ReasonDuplicateNPA {
		t.Fatalf("stored NPA collision should block with DUPLICATE_NPA, got proceed=%v reason=%s", proceed, reason)
	}

	if proceed, _ := checker.Check("ani|sma 1", false, domain.ModeSkip); !proceed {
		t.Fatal("fresh key should proceed")
	}
	if proceed, reason := checker.Check("ani|sma 1", false, domain.ModeSkip); proceed || reason != domain.ReasonDuplicate {
		t.Fatalf("in-batch collision should block with DUPLICATE, got proceed=%v reason=%s", proceed, reason)
	}
}

func TestDuplicateCheckerInsertAndUpsertDefer(t *testing.T) {
	t.Parallel()

	for _, mode := range []domain.ImportMode{domain.ModeInsert, domain.ModeUpsert} {
		checker := newDuplicateChecker(map[string]struct{}{"known": {}})
		if proceed, _ := checker.Check("known", false, mode); !proceed {
			t.Fatalf("mode %s must defer collision handling to the committer", mode)
		}
		if proceed, _ := checker.Check("known", false, mode); !proceed {
			t.Fatalf("mode %s must defer in-batch collisions too", mode)
		}
	}
}
