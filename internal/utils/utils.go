package utils

import (
	"orion-os/internal/errors"
	"orion-os/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileID returns the profile id set by the profile middleware
func ProfileID(c *gin.Context) (string, error) {
	id := c.GetString(middleware.ProfileIDKey)
	if id == "" {
		return "", errors.Unauthorized("Profile is not resolved!", nil)
	}
	return id, nil
}

// IDParam reads a uuid path parameter. Malformed ids are reported as not found
// since no record can have them.
func IDParam(c *gin.Context, name, resource string) (string, error) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", errors.NotFound(resource+" not found", err)
	}
	return raw, nil
}
