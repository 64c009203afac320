package middleware

import (
	"errors"

	apiError "orion-os/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apiError.APIError

			// if it's our custom APIError
			if !errors.As(err, &apiErr) {
				// If it's a raw error we didn't wrap, treat as Internal
				apiErr = apiError.Internal(err)
			}

			// LOGGING
			if apiErr.Status >= 500 {
				log.Error().Err(apiErr.Internal).
					Str("request_id", c.GetString(RequestIDKey)).
					Str("path", c.FullPath()).
					Msg("request failed")
			} else {
				log.Info().Err(apiErr.Internal).
					Str("request_id", c.GetString(RequestIDKey)).
					Int("status", apiErr.Status).
					Msg(apiErr.Message)
			}

			// Respond with JSON
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
