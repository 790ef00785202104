package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwhitmore/portfolio-backend/errors"
	"github.com/jwhitmore/portfolio-backend/logger"
	"github.com/jwhitmore/portfolio-backend/types"
)

// ErrorHandler converts errors attached to the gin context into the wire
// shape {"error": "<message>"}. Internal error detail is logged server-side
// and never leaks into 5xx responses.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		log := logger.GetLogger()

		if appError, ok := err.(*errors.AppError); ok {
			status := appError.GetHTTPStatus()

			// Pipeline branches that already emitted their own event
			// attach no raw cause; logging those again would double
			// up the operator trail.
			if status >= http.StatusInternalServerError && appError.Raw != nil {
				log.Errorw("Request failed",
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"client_ip", c.ClientIP(),
					"error_type", string(appError.Type),
					"error", appError.Error(),
					"cause", appError.Raw,
				)
			}

			c.JSON(status, types.ErrorResponse{Error: appError.Message})
			return
		}

		// Binding failures surface as gin public/bind errors.
		if c.Errors.Last().Type == gin.ErrorTypeBind || c.Errors.Last().Type == gin.ErrorTypePublic {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "Invalid request body"})
			return
		}

		log.Errorw("Unexpected server error",
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Internal Server Error"})
	}
}
