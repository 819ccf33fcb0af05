package routes

import (
	v1 "hirehub/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

// HealthPaths are the health check endpoints, kept out of the access log.
var HealthPaths = []string{"/health", "/api/v1/health"}

// Register mounts the root health check and the versioned API under /api.
func Register(app *fiber.App, handlers v1.Handlers) {
	if app == nil {
		return
	}
	if handlers.Health != nil {
		handlers.Health.RegisterRoutes(app)
	}
	v1.Register(app.Group("/api/v1"), handlers)
}
