package font

import (
	"context"
	defError "errors"
	"io"
	"net/http"

	"orion-os/internal/designsystem"
	"orion-os/internal/domain"
	"orion-os/internal/errors"
	"orion-os/internal/metrics"
	"orion-os/internal/storage"
	"orion-os/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FileStore keeps font bytes
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*storage.Stored, error)
	Remove(ctx context.Context, fileName string) error
}

// SlotWriter points a design system font slot at an uploaded font
type SlotWriter interface {
	SetFont(ctx context.Context, profileID string, slot designsystem.FontSlot, value string) (*domain.DesignSystem, error)
}

type TaskSubmitter interface {
	Submit(name string, t worker.Task) bool
}

// Upload is one incoming font file
type Upload struct {
	Name string
	Body io.Reader
	Slot designsystem.FontSlot
}

// UploadResult is the stored font and, when a slot was given, the updated
// active design system
type UploadResult struct {
	domain.FontFile
	DesignSystem *domain.DesignSystem `json:"designSystem,omitempty"`
}

type Service interface {
	Upload(ctx context.Context, profileID string, upload Upload) (*UploadResult, error)
	List(ctx context.Context, profileID string) ([]domain.FontFile, error)
	Delete(ctx context.Context, id, profileID string) error
}

type DefaultService struct {
	repository    FontRepository
	store         FileStore
	slots         SlotWriter
	tasks         TaskSubmitter
	purgeOnDelete bool
}

func NewService(repository FontRepository, store FileStore, slots SlotWriter, tasks TaskSubmitter, purgeOnDelete bool) Service {
	return &DefaultService{
		repository:    repository,
		store:         store,
		slots:         slots,
		tasks:         tasks,
		purgeOnDelete: purgeOnDelete,
	}
}

// Upload stores the bytes, records the font and optionally assigns it to a
// slot of the active design system. The file type is not checked.
func (s *DefaultService) Upload(ctx context.Context, profileID string, upload Upload) (*UploadResult, error) {
	if upload.Slot != "" {
		if _, ok := upload.Slot.Column(); !ok {
			metrics.FontUploads.WithLabelValues("invalid").Inc()
			return nil, errors.UnprocessableEntity("fontSlot must be primary or secondary", nil)
		}
	}

	stored, err := s.store.Save(ctx, upload.Name, upload.Body)
	if err != nil {
		metrics.FontUploads.WithLabelValues("error").Inc()
		var maxErr *http.MaxBytesError
		if defError.As(err, &maxErr) {
			return nil, errors.New(http.StatusRequestEntityTooLarge, "Font file too large", err)
		}
		return nil, err
	}

	if upload.Slot != "" {
		if err := upload.Slot.ValidateFont(stored.URL); err != nil {
			metrics.FontUploads.WithLabelValues("invalid").Inc()
			s.removeBytes(ctx, stored.FileName)
			return nil, err
		}
	}

	font := &domain.FontFile{
		Name:      upload.Name,
		FileName:  stored.FileName,
		FileURL:   stored.URL,
		ProfileID: profileID,
	}
	if err := s.repository.Create(ctx, font); err != nil {
		metrics.FontUploads.WithLabelValues("error").Inc()
		s.removeBytes(ctx, stored.FileName)
		return nil, err
	}

	result := &UploadResult{FontFile: *font}
	if upload.Slot == "" {
		metrics.FontUploads.WithLabelValues("ok").Inc()
		return result, nil
	}

	ds, err := s.slots.SetFont(ctx, profileID, upload.Slot, font.FileURL)
	if err != nil {
		var apiErr *errors.APIError
		if defError.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			metrics.FontUploads.WithLabelValues("ok").Inc()
			log.Info().Str("profile_id", profileID).Msg("font uploaded without an active design system")
			return result, nil
		}
		// a failed upload leaves no record and no bytes
		metrics.FontUploads.WithLabelValues("error").Inc()
		if _, delErr := s.repository.Delete(context.WithoutCancel(ctx), font.ID, profileID); delErr != nil {
			log.Error().Err(delErr).Str("font_id", font.ID).Msg("failed to remove font record after slot update failure")
		}
		s.removeBytes(ctx, stored.FileName)
		return nil, err
	}
	metrics.FontUploads.WithLabelValues("ok").Inc()
	result.DesignSystem = ds
	return result, nil
}

func (s *DefaultService) removeBytes(ctx context.Context, fileName string) {
	if err := s.store.Remove(context.WithoutCancel(ctx), fileName); err != nil {
		log.Error().Err(err).Str("file", fileName).Msg("failed to remove orphaned font file")
	}
}

func (s *DefaultService) List(ctx context.Context, profileID string) ([]domain.FontFile, error) {
	return s.repository.ListByProfile(ctx, profileID)
}

// Delete removes the font record. Design systems that reference the font
// keep their value. Bytes are purged in the background only when enabled.
func (s *DefaultService) Delete(ctx context.Context, id, profileID string) error {
	font, err := s.repository.Delete(ctx, id, profileID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return errors.NotFound("Font not found", err)
		}
		return err
	}

	if s.purgeOnDelete && s.tasks != nil {
		fileName := font.FileName
		s.tasks.Submit("purge-font", func(ctx context.Context) error {
			return s.store.Remove(ctx, fileName)
		})
	}
	return nil
}
