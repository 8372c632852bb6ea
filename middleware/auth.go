package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	transporthttp "github.com/utpal03/portalkit/transport/http"
)

type AuthConfig struct {
	// SkippedPathPrefixes lists path prefixes exempt from authentication.
	SkippedPathPrefixes []string

	// Validate checks the request credentials and returns context values
	// to attach, typically the user id and roles.
	Validate func(c *gin.Context) (map[any]any, error)
}

// AuthWithConfig rejects requests whose credentials fail validation with
// a 401 and injects the validated identity into the request context.
func AuthWithConfig(config AuthConfig) gin.HandlerFunc {
	matcher := NewPathMatcher(config.SkippedPathPrefixes)

	return func(c *gin.Context) {
		if config.Validate == nil || shouldSkip(c, matcher, nil) {
			c.Next()
			return
		}

		result, err := config.Validate(c)
		if err != nil {
			transporthttp.GinError(c, 401, err)
			return
		}

		ctx := c.Request.Context()
		for k, v := range result {
			ctx = context.WithValue(ctx, k, v)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
