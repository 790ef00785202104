// Package router assembles the gin engine from its handler and middleware
// dependencies.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwhitmore/portfolio-backend/config"
	"github.com/jwhitmore/portfolio-backend/handlers"
	"github.com/jwhitmore/portfolio-backend/middleware"
)

// Dependencies holds everything required to set up routes.
type Dependencies struct {
	Config         *config.Config
	ContactHandler *handlers.ContactHandler
	AdminHandler   *handlers.AdminHandler
	HealthHandler  *handlers.HealthHandler
	RateLimiter    *middleware.RateLimiter
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	// Global middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))

	// Health and metrics routes (unauthenticated)
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// The rate limiter gates only the submission endpoint.
		api.POST("/contact", deps.RateLimiter.Middleware(), deps.ContactHandler.Submit)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(deps.Config.Admin.Token))
		{
			admin.GET("/messages", deps.AdminHandler.ListMessages)
		}
	}

	return r
}
