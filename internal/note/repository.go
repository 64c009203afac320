package note

import (
	"context"

	"orion-os/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MutateFunc edits note in place. notes holds every note of the profile,
// locked for the duration of the transaction.
type MutateFunc func(note *domain.Note, notes []domain.Note) error

type NoteRepository interface {
	ListByProfile(ctx context.Context, profileID string) ([]domain.Note, error)
	FindByID(ctx context.Context, id, profileID string) (*domain.Note, error)
	Create(ctx context.Context, note *domain.Note) error
	CreateInTree(ctx context.Context, note *domain.Note, check func(notes []domain.Note) error) error
	UpdateWithTree(ctx context.Context, id, profileID string, fn MutateFunc) (*domain.Note, error)
	Delete(ctx context.Context, id, profileID string) (int64, error)
}

type NoteRepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) NoteRepository {
	return &NoteRepositoryImpl{db: db}
}

func (r *NoteRepositoryImpl) ListByProfile(ctx context.Context, profileID string) ([]domain.Note, error) {
	notes := []domain.Note{}
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *NoteRepositoryImpl) FindByID(ctx context.Context, id, profileID string) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", id, profileID).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(note).Error
}

// lockProfileNotes takes the profile row lock, which serializes every tree
// write of the profile including inserts, then reads the notes in a fresh
// statement so rows committed by the previous holder are visible.
func lockProfileNotes(tx *gorm.DB, profileID string) ([]domain.Note, error) {
	var owner []domain.Profile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", profileID).
		Find(&owner).Error; err != nil {
		return nil, err
	}

	var notes []domain.Note
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("profile_id = ?", profileID).
		Order("id").
		Find(&notes).Error
	return notes, err
}

// CreateInTree inserts note after check accepted it against the profile's
// notes, under the same lock as UpdateWithTree.
func (r *NoteRepositoryImpl) CreateInTree(ctx context.Context, note *domain.Note, check func(notes []domain.Note) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notes, err := lockProfileNotes(tx, note.ProfileID)
		if err != nil {
			return err
		}
		if err := check(notes); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(note).Error
	})
}

// UpdateWithTree locks the profile's notes, lets fn validate and edit the
// target and saves it, all in one transaction. Concurrent moves in the same
// profile are serialized, so no interleaving can produce a cycle.
func (r *NoteRepositoryImpl) UpdateWithTree(ctx context.Context, id, profileID string, fn MutateFunc) (*domain.Note, error) {
	var updated domain.Note
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		notes, err := lockProfileNotes(tx, profileID)
		if err != nil {
			return err
		}

		found := false
		for _, n := range notes {
			if n.ID == id {
				updated = n
				found = true
				break
			}
		}
		if !found {
			return gorm.ErrRecordNotFound
		}

		if err := fn(&updated, notes); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the note and moves its children to the root. It returns
// the number of re-parented children.
func (r *NoteRepositoryImpl) Delete(ctx context.Context, id, profileID string) (int64, error) {
	var reparented int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockProfileNotes(tx, profileID); err != nil {
			return err
		}

		result := tx.Model(&domain.Note{}).
			Where("parent_id = ? AND profile_id = ?", id, profileID).
			Update("parent_id", nil)
		if result.Error != nil {
			return result.Error
		}
		reparented = result.RowsAffected

		result = tx.Where("id = ? AND profile_id = ?", id, profileID).Delete(&domain.Note{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return reparented, err
}
