package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/danisworo/member-import/internal/domain/member"
	"github.com/danisworo/member-import/internal/infrastructure/db/models"
)

type BranchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

func (r *BranchRepository) ListAll(ctx context.Context) ([]domain.Branch, error) {
	var rows []models.Branch
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	branches := make([]domain.Branch, 0, len(rows))
	for _, row := range rows {
		branches = append(branches, domain.Branch{ID: row.ID, Name: row.Name})
	}
	return branches, nil
}

func (r *BranchRepository) Create(ctx context.Context, name string) (domain.Branch, error) {
	row := models.Branch{
		Name:    name,
		NameKey: domain.Fold(name),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Branch{}, fmt.Errorf("create branch: %w", err)
	}
	return domain.Branch{ID: row.ID, Name: row.Name}, nil
}
