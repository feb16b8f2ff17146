package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/danisworo/member-import/internal/domain/member"
)

type GetMemberByIDInput struct {
	ID string
}

type GetMemberByIDOutput struct {
	ID             string  `json:"id"`
	NPA            string  `json:"npa,omitempty"`
	Nama           string  `json:"nama"`
	TempatTugas    string  `json:"tempat_tugas,omitempty"`
	Instansi       string  `json:"instansi,omitempty"`
	ProvinsiKantor string  `json:"provinsi_kantor"`
	KotaKantor     string  `json:"kota_kantor,omitempty"`
	Email          string  `json:"email,omitempty"`
	JenisKelamin   string  `json:"jenis_kelamin,omitempty"`
	TanggalLahir   string  `json:"tanggal_lahir,omitempty"`
	Status         string  `json:"status"`
	TahunBergabung *int    `json:"tahun_bergabung,omitempty"`
	NoHP           string  `json:"no_hp,omitempty"`
	BranchID       *string `json:"branch_id,omitempty"`
}

type GetMemberByID interface {
	Execute(ctx context.Context, in GetMemberByIDInput) (GetMemberByIDOutput, error)
}

type getMemberByID struct {
	repo domain.MemberQueryRepository
}

func NewGetMemberByID(repo domain.MemberQueryRepository) GetMemberByID {
	return &getMemberByID{repo: repo}
}

func (uc *getMemberByID) Execute(ctx context.Context, in GetMemberByIDInput) (GetMemberByIDOutput, error) {
	if _, err := uuid.Parse(in.ID); err != nil {
		return GetMemberByIDOutput{}, ErrInvalidMemberID
	}

	m, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return GetMemberByIDOutput{}, ErrMemberNotFound
		}
		return GetMemberByIDOutput{}, fmt.Errorf("%w: %v", ErrGetMemberByID, err)
	}

	out := GetMemberByIDOutput{
		ID:             m.ID,
		NPA:            m.NPA,
		Nama:           m.Nama,
		TempatTugas:    m.TempatTugas,
		Instansi:       m.Instansi,
		ProvinsiKantor: m.ProvinsiKantor,
		KotaKantor:     m.KotaKantor,
		Email:          m.Email,
		JenisKelamin:   m.JenisKelamin,
		Status:         m.Status,
		TahunBergabung: m.TahunBergabung,
		NoHP:           m.NoHP,
		BranchID:       m.BranchID,
	}
	if m.TanggalLahir != nil {
		out.TanggalLahir = m.TanggalLahir.Format("2006-01-02")
	}
	return out, nil
}
