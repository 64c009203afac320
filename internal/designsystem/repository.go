package designsystem

import (
	"context"

	"orion-os/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	List(ctx context.Context, profileID string) ([]domain.DesignSystem, error)
	FindByID(ctx context.Context, id, profileID string) (*domain.DesignSystem, error)
	FindActive(ctx context.Context, profileID string) (*domain.DesignSystem, error)
	Create(ctx context.Context, ds *domain.DesignSystem) error
	Update(ctx context.Context, id, profileID string, changes map[string]any) (*domain.DesignSystem, error)
	Delete(ctx context.Context, id, profileID string) error
	Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error)
	UpdateActive(ctx context.Context, profileID string, changes map[string]any) (*domain.DesignSystem, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context, profileID string) ([]domain.DesignSystem, error) {
	systems := []domain.DesignSystem{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&systems).Error
	return systems, err
}

func (r *RepositoryImpl) FindByID(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	var ds domain.DesignSystem
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&ds).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *RepositoryImpl) FindActive(ctx context.Context, profileID string) (*domain.DesignSystem, error) {
	var ds domain.DesignSystem
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND is_active = ?", profileID, true).
		First(&ds).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, ds *domain.DesignSystem) error {
	return r.db.WithContext(ctx).Create(ds).Error
}

func (r *RepositoryImpl) Update(ctx context.Context, id, profileID string, changes map[string]any) (*domain.DesignSystem, error) {
	var ds domain.DesignSystem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(changes) > 0 {
			result := tx.Model(&domain.DesignSystem{}).
				Where("id = ? AND profile_id = ?", id, profileID).
				Updates(changes)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Where("id = ? AND profile_id = ?", id, profileID).First(&ds).Error
	})
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id, profileID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		Delete(&domain.DesignSystem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Activate clears the profile's active flag and sets it on id in one
// transaction. The profile's rows are locked first so concurrent activations
// run one after the other. A foreign or missing id rolls everything back.
func (r *RepositoryImpl) Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	var target *domain.DesignSystem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var systems []domain.DesignSystem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("profile_id = ?", profileID).
			Find(&systems).Error; err != nil {
			return err
		}
		for i := range systems {
			if systems[i].ID == id {
				target = &systems[i]
				break
			}
		}
		if target == nil {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&domain.DesignSystem{}).
			Where("profile_id = ? AND is_active = ? AND id <> ?", profileID, true, id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.DesignSystem{}).
			Where("id = ? AND profile_id = ?", id, profileID).
			Update("is_active", true).Error; err != nil {
			return err
		}
		target.IsActive = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// UpdateActive applies changes to the profile's active design system
func (r *RepositoryImpl) UpdateActive(ctx context.Context, profileID string, changes map[string]any) (*domain.DesignSystem, error) {
	var ds domain.DesignSystem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("profile_id = ? AND is_active = ?", profileID, true).
			First(&ds).Error; err != nil {
			return err
		}
		return tx.Model(&ds).Updates(changes).Error
	})
	if err != nil {
		return nil, err
	}
	return &ds, nil
}
