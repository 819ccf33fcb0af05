package v1

import (
	"hirehub/internal/delivery/http/handler"
	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/pkg/jwt"
	"hirehub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Jobs      *handler.JobsHandler
	Users     *handler.UserHandler
	Companies *handler.CompanyHandler
	Health    *handler.HealthHandler
	WS        *ws.Handler

	// AuthMiddleware validates access tokens on protected routes.
	AuthMiddleware fiber.Handler
	// AuthRateLimit throttles the credential endpoints; nil leaves them unthrottled.
	AuthRateLimit fiber.Handler
}

// Register lays out /api/v1. Jobs guards its own write routes; /users and /companies
// are closed to anyone but their role.
func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Health != nil {
		h.Health.RegisterRoutes(r)
	}
	if h.Auth != nil {
		auth := r.Group("/auth")
		if h.AuthRateLimit != nil {
			auth.Use(h.AuthRateLimit)
		}
		h.Auth.RegisterRoutes(auth)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(r.Group("/jobs"))
	}
	if h.AuthMiddleware != nil {
		if h.Users != nil {
			h.Users.RegisterRoutes(r.Group("/users", h.AuthMiddleware, middleware.RequireRole(jwt.RoleUser)))
		}
		if h.Companies != nil {
			h.Companies.RegisterRoutes(r.Group("/companies", h.AuthMiddleware, middleware.RequireRole(jwt.RoleCompany)))
		}
	}
	if h.WS != nil {
		r.Get("/ws", h.WS.HandleNotifications)
	}
}
