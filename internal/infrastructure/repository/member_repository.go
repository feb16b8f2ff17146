package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

const uniqueViolation = "23505"

// MemberRepository is the commit-side store. It goes through pgx directly:
// the pipeline needs the unique-violation class of an insert failure, which
// is what turns a constraint conflict into a duplicate count instead of a
// system error.
type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

func (r *MemberRepository) ListIdentityKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, "SELECT identity_key, composite_key FROM members")
	if err != nil {
		return nil, fmt.Errorf("list identity keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var identity, composite string
		if err := rows.Scan(&identity, &composite); err != nil {
			return nil, fmt.Errorf("scan identity keys: %w", err)
		}
		keys[identity] = struct{}{}
		keys[composite] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list identity keys: %w", err)
	}
	return keys, nil
}

func (r *MemberRepository) FindByIdentity(ctx context.Context, key string) (*domain.Member, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, COALESCE(npa, ''), nama, tempat_tugas, instansi, provinsi_kantor,
       kota_kantor, email, jenis_kelamin, tanggal_lahir, status,
       tahun_bergabung, no_hp, branch_id, identity_key
FROM members
WHERE identity_key = $1 OR composite_key = $1
LIMIT 1
`, key)

	var m domain.Member
	err := row.Scan(&m.ID, &m.NPA, &m.Nama, &m.TempatTugas, &m.Instansi,
		&m.ProvinsiKantor, &m.KotaKantor, &m.Email, &m.JenisKelamin,
		&m.TanggalLahir, &m.Status, &m.TahunBergabung, &m.NoHP,
		&m.BranchID, &m.IdentityKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member by identity: %w", err)
	}
	return &m, nil
}

func (r *MemberRepository) Insert(ctx context.Context, m domain.Member) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO members (
  id, npa, nama, tempat_tugas, instansi, provinsi_kantor, kota_kantor,
  email, jenis_kelamin, tanggal_lahir, status, tahun_bergabung, no_hp,
  branch_id, identity_key, composite_key, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW(),NOW())
`, m.ID, nullableText(m.NPA), m.Nama, m.TempatTugas, m.Instansi,
		m.ProvinsiKantor, m.KotaKantor, m.Email, m.JenisKelamin,
		m.TanggalLahir, m.Status, m.TahunBergabung, m.NoHP, m.BranchID,
		m.IdentityKey, domain.CompositeKey(m.Nama, m.Workplace()))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateMember
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, id string, m domain.Member) error {
	_, err := r.pool.Exec(ctx, `
UPDATE members SET
  npa = $2, nama = $3, tempat_tugas = $4, instansi = $5,
  provinsi_kantor = $6, kota_kantor = $7, email = $8, jenis_kelamin = $9,
  tanggal_lahir = $10, status = $11, tahun_bergabung = $12, no_hp = $13,
  branch_id = $14, identity_key = $15, composite_key = $16, updated_at = NOW()
WHERE id = $1
`, id, nullableText(m.NPA), m.Nama, m.TempatTugas, m.Instansi,
		m.ProvinsiKantor, m.KotaKantor, m.Email, m.JenisKelamin,
		m.TanggalLahir, m.Status, m.TahunBergabung, m.NoHP, m.BranchID,
		m.IdentityKey, domain.CompositeKey(m.Nama, m.Workplace()))
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
