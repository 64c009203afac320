package profile

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"orion-os/internal/designsystem"
	"orion-os/internal/domain"
	"orion-os/internal/errors"
	"orion-os/internal/metrics"
	"orion-os/redis"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service interface {
	Resolve(ctx context.Context, identity domain.Identity) (*domain.Profile, error)
	Get(ctx context.Context, id string) (*domain.Profile, error)
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

func identityKey(subject string) string {
	return fmt.Sprintf("profile:identity:%s", subject)
}

// Resolve returns the profile of identity, creating it with an active
// Zenith design system on first sign-in.
func (s *DefaultService) Resolve(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	if identity.Subject == "" {
		return nil, errors.Unauthorized("Identity is not found!", nil)
	}

	var cached domain.Profile
	if found, _ := s.cache.Get(ctx, identityKey(identity.Subject), &cached); found {
		return &cached, nil
	}

	p, err := s.repository.FindByIdentity(ctx, identity.Subject)
	if err == nil {
		go s.cache.Set(context.Background(), identityKey(identity.Subject), p, s.cacheTTL)
		return p, nil
	}
	if !defError.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = &domain.Profile{
		IdentityRef: identity.Subject,
		Name:        identity.DisplayName(),
		Email:       identity.Email,
		ImageURL:    identity.ImageURL,
	}
	zenith := designsystem.Zenith()
	zenith.IsActive = true

	if err := s.repository.CreateWithDefaults(ctx, p, &zenith); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			// another request created it first
			return s.repository.FindByIdentity(ctx, identity.Subject)
		}
		return nil, err
	}

	metrics.ProfilesCreated.Inc()
	log.Info().Str("profile_id", p.ID).Msg("created profile on first sign-in")
	return p, nil
}

func (s *DefaultService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Profile not found", err)
		}
		return nil, err
	}
	return p, nil
}
