package db

import (
	"context"

	"orion-os/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Profile{},
		&domain.DesignSystem{},
		&domain.Note{},
		&domain.FontFile{},
	)
	if err != nil {
		return err
	}

	log.Info().Msg("Database schema migrated successfully")
	return nil
}

// ProfileResolver is the part of the profile service the seed needs
type ProfileResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (*domain.Profile, error)
}

// SeedData seeds the database with a development profile
func SeedData(ctx context.Context, resolver ProfileResolver) {
	profile, err := resolver.Resolve(ctx, domain.Identity{
		Subject:   "dev-user",
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating test profile")
		return
	}
	log.Info().Str("profile_id", profile.ID).Msg("Seeded test profile")
}
