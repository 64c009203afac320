package designsystem

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"orion-os/internal/domain"
	"orion-os/internal/errors"
	"orion-os/internal/metrics"
	"orion-os/redis"

	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, profileID string) ([]domain.DesignSystem, error)
	Get(ctx context.Context, id, profileID string) (*domain.DesignSystem, error)
	Create(ctx context.Context, profileID string, values map[string]any) (*domain.DesignSystem, error)
	Update(ctx context.Context, id, profileID string, values map[string]any) (*domain.DesignSystem, error)
	Delete(ctx context.Context, id, profileID string) error
	Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error)
	GetActive(ctx context.Context, profileID string) (*domain.DesignSystem, error)
	ActiveCSS(ctx context.Context, profileID string) (string, error)
	SetFont(ctx context.Context, profileID string, slot FontSlot, value string) (*domain.DesignSystem, error)
}

type DefaultService struct {
	repository Repository
	cache      *redis.Cache
	cacheTTL   time.Duration
}

func NewService(repository Repository, cache *redis.Cache, cacheTTL time.Duration) Service {
	return &DefaultService{
		repository: repository,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func versionKey(profileID string) string {
	return fmt.Sprintf("profile:%s:ds:version", profileID)
}

// invalidate bumps the version so list and active caches miss
func (s *DefaultService) invalidate(ctx context.Context, profileID string) {
	s.cache.IncrementVersion(ctx, versionKey(profileID))
}

func notFound(err error) error {
	if defError.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound("Design system not found", err)
	}
	return err
}

func validationError(err error) error {
	var fieldErr *FieldError
	if defError.As(err, &fieldErr) {
		return errors.NewValidationError(err)
	}
	return err
}

func (s *DefaultService) List(ctx context.Context, profileID string) ([]domain.DesignSystem, error) {
	v := s.cache.GetVersion(ctx, versionKey(profileID))
	cacheKey := fmt.Sprintf("ds:p:%s:v:%d", profileID, v)

	var systems []domain.DesignSystem
	if found, _ := s.cache.Get(ctx, cacheKey, &systems); found {
		return systems, nil
	}

	systems, err := s.repository.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	go s.cache.Set(context.Background(), cacheKey, systems, s.cacheTTL)

	return systems, nil
}

func (s *DefaultService) Get(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	ds, err := s.repository.FindByID(ctx, id, profileID)
	if err != nil {
		return nil, notFound(err)
	}
	return ds, nil
}

func (s *DefaultService) Create(ctx context.Context, profileID string, values map[string]any) (*domain.DesignSystem, error) {
	ds, err := NewFromValues(profileID, values)
	if err != nil {
		return nil, validationError(err)
	}
	if err := s.repository.Create(ctx, ds); err != nil {
		return nil, err
	}
	s.invalidate(ctx, profileID)
	return ds, nil
}

func (s *DefaultService) Update(ctx context.Context, id, profileID string, values map[string]any) (*domain.DesignSystem, error) {
	accepted, err := Validate(values)
	if err != nil {
		return nil, validationError(err)
	}

	ds, err := s.repository.Update(ctx, id, profileID, Changes(accepted))
	if err != nil {
		return nil, notFound(err)
	}
	s.invalidate(ctx, profileID)
	return ds, nil
}

// Delete removes the design system. Deleting the active one leaves the
// profile without an active system until the next activation.
func (s *DefaultService) Delete(ctx context.Context, id, profileID string) error {
	if err := s.repository.Delete(ctx, id, profileID); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx, profileID)
	return nil
}

func (s *DefaultService) Activate(ctx context.Context, id, profileID string) (*domain.DesignSystem, error) {
	ds, err := s.repository.Activate(ctx, id, profileID)
	if err != nil {
		return nil, notFound(err)
	}
	metrics.DesignSystemActivations.Inc()
	s.invalidate(ctx, profileID)
	return ds, nil
}

func (s *DefaultService) GetActive(ctx context.Context, profileID string) (*domain.DesignSystem, error) {
	v := s.cache.GetVersion(ctx, versionKey(profileID))
	cacheKey := fmt.Sprintf("ds:active:p:%s:v:%d", profileID, v)

	var cached domain.DesignSystem
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	ds, err := s.repository.FindActive(ctx, profileID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("No active design system", err)
		}
		return nil, err
	}
	go s.cache.Set(context.Background(), cacheKey, ds, s.cacheTTL)

	return ds, nil
}

func (s *DefaultService) ActiveCSS(ctx context.Context, profileID string) (string, error) {
	ds, err := s.GetActive(ctx, profileID)
	if err != nil {
		return "", err
	}
	return RenderCSS(ds), nil
}

// SetFont writes value into a font slot of the active design system
func (s *DefaultService) SetFont(ctx context.Context, profileID string, slot FontSlot, value string) (*domain.DesignSystem, error) {
	if err := slot.ValidateFont(value); err != nil {
		return nil, err
	}
	column, _ := slot.Column()

	ds, err := s.repository.UpdateActive(ctx, profileID, map[string]any{column: value})
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("No active design system", err)
		}
		return nil, err
	}
	s.invalidate(ctx, profileID)
	return ds, nil
}
