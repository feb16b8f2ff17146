package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/danisworo/member-import/internal/domain/member"
	"github.com/danisworo/member-import/internal/infrastructure/db/models"
)

type MemberQueryRepository struct {
	db *gorm.DB
}

func NewMemberQueryRepository(db *gorm.DB) *MemberQueryRepository {
	return &MemberQueryRepository{db: db}
}

func (r *MemberQueryRepository) GetByID(ctx context.Context, memberID string) (*domain.Member, error) {
	var row models.Member

	err := r.db.WithContext(ctx).First(&row, "id = ?", memberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member by id: %w", err)
	}

	m := &domain.Member{
		ID:             row.ID,
		Nama:           row.Nama,
		TempatTugas:    row.TempatTugas,
		Instansi:       row.Instansi,
		ProvinsiKantor: row.ProvinsiKantor,
		KotaKantor:     row.KotaKantor,
		Email:          row.Email,
		JenisKelamin:   row.JenisKelamin,
		TanggalLahir:   row.TanggalLahir,
		Status:         row.Status,
		TahunBergabung: row.TahunBergabung,
		NoHP:           row.NoHP,
		BranchID:       row.BranchID,
		IdentityKey:    row.IdentityKey,
	}
	if row.NPA != nil {
		m.NPA = *row.NPA
	}
	return m, nil
}
