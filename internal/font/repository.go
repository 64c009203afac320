package font

import (
	"context"

	"orion-os/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FontRepository interface {
	Create(ctx context.Context, font *domain.FontFile) error
	ListByProfile(ctx context.Context, profileID string) ([]domain.FontFile, error)
	Delete(ctx context.Context, id, profileID string) (*domain.FontFile, error)
}

type FontRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) FontRepository {
	return &FontRepositoryImpl{db: db}
}

func (r *FontRepositoryImpl) Create(ctx context.Context, font *domain.FontFile) error {
	return r.db.WithContext(ctx).Create(font).Error
}

func (r *FontRepositoryImpl) ListByProfile(ctx context.Context, profileID string) ([]domain.FontFile, error) {
	fonts := []domain.FontFile{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&fonts).Error
	return fonts, err
}

// Delete removes the row and returns it, so callers know the stored file name
func (r *FontRepositoryImpl) Delete(ctx context.Context, id, profileID string) (*domain.FontFile, error) {
	var deleted []domain.FontFile
	result := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ? AND profile_id = ?", id, profileID).
		Delete(&deleted)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 || len(deleted) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &deleted[0], nil
}
