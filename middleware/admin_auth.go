package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwhitmore/portfolio-backend/errors"
)

// AdminAuth guards admin endpoints with a shared bearer secret. A missing or
// malformed Authorization header yields 401; a well-formed header with the
// wrong token yields 403. The comparison is an exact string match.
func AdminAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			_ = c.Error(apperrors.Unauthorized("Unauthorized"))
			c.Abort()
			return
		}

		presented := strings.TrimPrefix(header, "Bearer ")
		if presented != token {
			_ = c.Error(apperrors.Forbidden("Forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}
