package auth

import (
	"strings"

	"orion-os/internal/domain"
	"orion-os/internal/errors"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the verified domain.Identity
const IdentityKey = "identity"

type Verifier interface {
	Verify(tokenString string) (domain.Identity, error)
}

// AuthMiddleWare rejects requests without a valid bearer identity token
func AuthMiddleWare(verifier Verifier) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		// verify token
		token := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := verifier.Verify(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		ctx.Set(IdentityKey, identity)
		ctx.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleWare
func IdentityFrom(ctx *gin.Context) (domain.Identity, bool) {
	v, ok := ctx.Get(IdentityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok && identity.Subject != ""
}
