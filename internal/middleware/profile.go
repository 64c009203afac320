package middleware

import (
	"context"

	"orion-os/auth"
	"orion-os/internal/domain"
	"orion-os/internal/errors"

	"github.com/gin-gonic/gin"
)

const ProfileIDKey = "profile_id"

type ProfileResolver interface {
	Resolve(ctx context.Context, identity domain.Identity) (*domain.Profile, error)
}

type Profile struct {
	Resolver ProfileResolver
}

// ProfileMiddleware maps the verified identity to an application profile.
// It must run after the token middleware.
func (m *Profile) ProfileMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, ok := auth.IdentityFrom(ctx)
		if !ok {
			ctx.Error(errors.Unauthorized("Identity is not found!", nil))
			ctx.Abort()
			return
		}

		profile, err := m.Resolver.Resolve(ctx.Request.Context(), identity)
		if err != nil {
			ctx.Error(err)
			ctx.Abort()
			return
		}

		ctx.Set(ProfileIDKey, profile.ID)
		ctx.Next()
	}
}
