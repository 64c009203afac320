package note

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"orion-os/internal/domain"
	"orion-os/internal/errors"
	"orion-os/internal/metrics"
	"orion-os/redis"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, profileID string) ([]domain.Note, error)
	Tree(ctx context.Context, profileID string) ([]*TreeNode, error)
	Create(ctx context.Context, profileID string, input CreateRequest) (*domain.Note, error)
	Update(ctx context.Context, id, profileID string, patch UpdateRequest) (*domain.Note, error)
	Delete(ctx context.Context, id, profileID string) error
}

type DefaultService struct {
	repository NoteRepository
	cache      *redis.Cache
	cacheTTL   time.Duration
}

func NewService(repository NoteRepository, cache *redis.Cache, cacheTTL time.Duration) Service {
	return &DefaultService{
		repository: repository,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func versionKey(profileID string) string {
	return fmt.Sprintf("profile:%s:notes:version", profileID)
}

func (s *DefaultService) invalidate(ctx context.Context, profileID string) {
	s.cache.IncrementVersion(ctx, versionKey(profileID))
}

// translate maps repository and tree errors to API errors
func translate(err error) error {
	switch {
	case defError.Is(err, gorm.ErrRecordNotFound):
		return errors.NotFound("Note not found", err)
	case defError.Is(err, gorm.ErrForeignKeyViolated):
		return errors.UnprocessableEntity(ErrParentNotFound.Error(), err)
	case defError.Is(err, ErrParentNotFound),
		defError.Is(err, ErrParentNotFolder),
		defError.Is(err, ErrCycle),
		defError.Is(err, ErrFolderHasChildren):
		return errors.UnprocessableEntity(err.Error(), err)
	}
	return err
}

func moveResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case defError.Is(err, ErrCycle):
		return "cycle"
	case defError.Is(err, ErrParentNotFound):
		return "parent_not_found"
	case defError.Is(err, ErrParentNotFolder):
		return "parent_not_folder"
	}
	return "error"
}

func (s *DefaultService) List(ctx context.Context, profileID string) ([]domain.Note, error) {
	v := s.cache.GetVersion(ctx, versionKey(profileID))
	cacheKey := fmt.Sprintf("notes:p:%s:v:%d", profileID, v)

	var notes []domain.Note
	if found, _ := s.cache.Get(ctx, cacheKey, &notes); found {
		return notes, nil
	}

	notes, err := s.repository.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	go s.cache.Set(context.Background(), cacheKey, notes, s.cacheTTL)

	return notes, nil
}

func (s *DefaultService) Tree(ctx context.Context, profileID string) ([]*TreeNode, error) {
	notes, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return BuildTree(notes), nil
}

// Create inserts a note. The parent must be an owned folder at insert time.
func (s *DefaultService) Create(ctx context.Context, profileID string, input CreateRequest) (*domain.Note, error) {
	note := &domain.Note{
		Title:     input.Title,
		Content:   input.Content,
		IsFolder:  input.IsFolder,
		ParentID:  input.ParentID,
		ProfileID: profileID,
	}
	err := s.repository.CreateInTree(ctx, note, func(notes []domain.Note) error {
		return ValidateMove(notes, note.ID, note.ParentID)
	})
	if err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, profileID)
	return note, nil
}

// Update edits fields and, when parentId is present, re-parents the note.
// Move validation and the write share one transaction.
func (s *DefaultService) Update(ctx context.Context, id, profileID string, patch UpdateRequest) (*domain.Note, error) {
	note, err := s.repository.UpdateWithTree(ctx, id, profileID, func(note *domain.Note, notes []domain.Note) error {
		if patch.Title != nil {
			note.Title = *patch.Title
		}
		if patch.Content != nil {
			note.Content = *patch.Content
		}
		if patch.IsFolder != nil {
			if note.IsFolder && !*patch.IsFolder && HasChildren(notes, note.ID) {
				return ErrFolderHasChildren
			}
			note.IsFolder = *patch.IsFolder
		}
		if patch.ParentID.Set {
			err := ValidateMove(notes, note.ID, patch.ParentID.Value)
			metrics.NoteMoves.WithLabelValues(moveResult(err)).Inc()
			if err != nil {
				return err
			}
			note.ParentID = patch.ParentID.Value
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, profileID)
	return note, nil
}

// Delete removes the note; its children become roots
func (s *DefaultService) Delete(ctx context.Context, id, profileID string) error {
	reparented, err := s.repository.Delete(ctx, id, profileID)
	if err != nil {
		return translate(err)
	}
	if reparented > 0 {
		log.Info().Str("note_id", id).Int64("children", reparented).Msg("moved children of deleted note to root")
	}
	s.invalidate(ctx, profileID)
	return nil
}
