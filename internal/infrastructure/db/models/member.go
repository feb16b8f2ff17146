package models

import "time"

type Member struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	NPA            *string `gorm:"column:npa;size:32;uniqueIndex"`
	Nama           string  `gorm:"size:255;not null"`
	TempatTugas    string  `gorm:"size:255"`
	Instansi       string  `gorm:"size:255"`
	ProvinsiKantor string  `gorm:"size:120;not null"`
	KotaKantor     string  `gorm:"size:120"`
	Email          string  `gorm:"size:320"`
	JenisKelamin   string  `gorm:"size:1"`
	TanggalLahir   *time.Time
	Status         string `gorm:"size:20;not null;default:aktif"`
	TahunBergabung *int
	NoHP           string  `gorm:"size:32"`
	BranchID       *string `gorm:"type:uuid;index"`
	IdentityKey    string  `gorm:"size:512;not null;uniqueIndex"`
	CompositeKey   string  `gorm:"size:512;not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Member) TableName() string {
	return "members"
}

type Branch struct {
	ID        string `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string `gorm:"size:255;not null"`
	NameKey   string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Branch) TableName() string {
	return "branches"
}
