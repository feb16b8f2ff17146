package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/danisworo/member-import/internal/domain/member"
	"github.com/danisworo/member-import/internal/infrastructure/repository"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createMembersTable(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	createSQL := `
    CREATE TABLE IF NOT EXISTS members (
      id UUID PRIMARY KEY,
      npa TEXT UNIQUE,
      nama TEXT NOT NULL,
      tempat_tugas TEXT NOT NULL DEFAULT '',
      instansi TEXT NOT NULL DEFAULT '',
      provinsi_kantor TEXT NOT NULL DEFAULT '',
      kota_kantor TEXT NOT NULL DEFAULT '',
      email TEXT NOT NULL DEFAULT '',
      jenis_kelamin TEXT NOT NULL DEFAULT '',
      tanggal_lahir TIMESTAMPTZ,
      status TEXT NOT NULL DEFAULT 'aktif',
      tahun_bergabung INT,
      no_hp TEXT NOT NULL DEFAULT '',
      branch_id UUID,
      identity_key TEXT NOT NULL UNIQUE,
      composite_key TEXT NOT NULL,
      created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
      updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );
    CREATE INDEX IF NOT EXISTS idx_members_composite_key ON members (composite_key);
    `
	if _, err := pool.Exec(context.Background(), createSQL); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
}

func testMember(npa string) domain.Member {
	m := domain.Member{
		ID:             uuid.NewString(),
		NPA:            npa,
		Nama:           "Ani Susanti " + uuid.NewString()[:8],
		TempatTugas:    "SMA Negeri 1",
		ProvinsiKantor: "Jawa Barat",
		Status:         "aktif",
	}
	if npa != "" {
		m.IdentityKey = npa
	} else {
		m.IdentityKey = domain.CompositeKey(m.Nama, m.Workplace())
	}
	return m
}

func TestMemberRepositoryInsertAndFindIntegration(t *testing.T) {
	pool := openTestPool(t)
	createMembersTable(t, pool)

	repo := repository.NewMemberRepository(pool)
	ctx := context.Background()

	m := testMember(uuid.NewString()[:12])
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	// Lookup matches both the NPA key and the name+workplace composite.
	byNPA, err := repo.FindByIdentity(ctx, m.IdentityKey)
	if err != nil {
		t.Fatalf("find by npa key failed: %v", err)
	}
	if byNPA.ID != m.ID {
		t.Fatalf("unexpected member: %+v", byNPA)
	}

	byComposite, err := repo.FindByIdentity(ctx, domain.CompositeKey(m.Nama, m.Workplace()))
	if err != nil {
		t.Fatalf("find by composite key failed: %v", err)
	}
	if byComposite.ID != m.ID {
		t.Fatalf("unexpected member: %+v", byComposite)
	}

	keys, err := repo.ListIdentityKeys(ctx)
	if err != nil {
		t.Fatalf("list keys failed: %v", err)
	}
	if _, ok := keys[m.IdentityKey]; !ok {
		t.Fatal("identity key missing from prefetch set")
	}
	if _, ok := keys[domain.CompositeKey(m.Nama, m.Workplace())]; !ok {
		t.Fatal("composite key missing from prefetch set")
	}
}

func TestMemberRepositoryInsertDuplicateIntegration(t *testing.T) {
	pool := openTestPool(t)
	createMembersTable(t, pool)

	repo := repository.NewMemberRepository(pool)
	ctx := context.Background()

	m := testMember(uuid.NewString()[:12])
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	again := m
	again.ID = uuid.NewString()
	if err := repo.Insert(ctx, again); !errors.Is(err, domain.ErrDuplicateMember) {
		t.Fatalf("expected ErrDuplicateMember, got %v", err)
	}
}

func TestMemberRepositoryUpdateIntegration(t *testing.T) {
	pool := openTestPool(t)
	createMembersTable(t, pool)

	repo := repository.NewMemberRepository(pool)
	ctx := context.Background()

	m := testMember(uuid.NewString()[:12])
	if err := repo.Insert(ctx, m); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	m.ProvinsiKantor = "Jawa Tengah"
	if err := repo.Update(ctx, m.ID, m); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.FindByIdentity(ctx, m.IdentityKey)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if got.ProvinsiKantor != "Jawa Tengah" {
		t.Fatalf("update lost: %+v", got)
	}
}

func TestMemberRepositoryFindMissingIntegration(t *testing.T) {
	pool := openTestPool(t)
	createMembersTable(t, pool)

	repo := repository.NewMemberRepository(pool)

	_, err := repo.FindByIdentity(context.Background(), "no-such-key")
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
