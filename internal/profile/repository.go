package profile

import (
	"context"

	"orion-os/internal/domain"

	"gorm.io/gorm"
)

type Repository interface {
	FindByIdentity(ctx context.Context, identityRef string) (*domain.Profile, error)
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	CreateWithDefaults(ctx context.Context, profile *domain.Profile, defaults *domain.DesignSystem) error
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) FindByIdentity(ctx context.Context, identityRef string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("identity_ref = ?", identityRef).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateWithDefaults inserts the profile and its first design system together
func (r *RepositoryImpl) CreateWithDefaults(ctx context.Context, profile *domain.Profile, defaults *domain.DesignSystem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		defaults.ProfileID = profile.ID
		return tx.Create(defaults).Error
	})
}
