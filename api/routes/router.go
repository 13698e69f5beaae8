// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"studiobook/internal/bookings"
	"studiobook/internal/payments"
	"studiobook/internal/shared/config"
	"studiobook/internal/shared/database"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	service  bookings.Service
	index    *bookings.Availability
	verifier payments.Verifier
}

// NewRouter creates a new router instance. The booking service and
// availability index are built in main so the expiry sweeper shares them.
func NewRouter(cfg *config.Config, db *database.DB, service bookings.Service, index *bookings.Availability, verifier payments.Verifier) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		service:  service,
		index:    index,
		verifier: verifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "studiobook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "studiobook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "operational",
			"timestamp": time.Now(),
		})
	})
}

// setupBookingRoutes configures slot reservation routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookings.RegisterValidations()

	controller := bookings.NewController(r.service, r.index, r.verifier)
	bookings.SetupBookingRoutes(rg, controller, r.config.JWT.Secret)
}
