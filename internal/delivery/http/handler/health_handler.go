package handler

import (
	"context"
	"time"

	"hirehub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ConnCounter interface {
	ClientCount() int
}

// HealthHandler reports the store as required and the cache as optional.
type HealthHandler struct {
	db    Pinger
	cache Pinger
	conns ConnCounter
}

type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Cache       string `json:"cache"`
	Connections int    `json:"connections"`
}

func NewHealthHandler(db, cache Pinger, conns ConnCounter) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, conns: conns}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok", Database: pingStatus(ctx, h.db), Cache: pingStatus(ctx, h.cache)}
	if h.conns != nil {
		res.Connections = h.conns.ClientCount()
	}
	status := fiber.StatusOK
	if res.Database != "up" {
		res.Status = "degraded"
		status = fiber.StatusServiceUnavailable
	}
	return response.JSON(c, status, res)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
