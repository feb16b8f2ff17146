package member

import "time"

type Branch struct {
	ID   string
	Name string
}

type Member struct {
	ID             string
	NPA            string
	Nama           string
	TempatTugas    string
	Instansi       string
	ProvinsiKantor string
	KotaKantor     string
	Email          string
	JenisKelamin   string
	TanggalLahir   *time.Time
	Status         string
	TahunBergabung *int
	NoHP           string
	BranchID       *string
	IdentityKey    string
}

// Workplace returns the primary workplace value, falling back to the
// alternative field.
func (m Member) Workplace() string {
	if m.TempatTugas != "" {
		return m.TempatTugas
	}
	return m.Instansi
}
