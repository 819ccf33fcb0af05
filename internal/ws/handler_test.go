package ws

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hirehub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func TestHandleNotifications_RejectsMissingOrRefreshToken(t *testing.T) {
	tokens := jwt.NewHMACService("access", "refresh", time.Hour, 2*time.Hour)
	logger := log.New(io.Discard, "", 0)
	h := NewHandler(NewHub(logger), tokens, logger)

	app := fiber.New()
	app.Get("/ws", h.HandleNotifications)

	refresh, err := tokens.GenerateRefreshToken(uuid.New(), jwt.RoleUser)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, target := range []string{"/ws", "/ws?token=garbage", "/ws?token=" + refresh} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, resp.StatusCode)
		}
	}
}

func TestHandleNotifications_NilHubUnavailable(t *testing.T) {
	app := fiber.New()
	app.Get("/ws", (&Handler{}).HandleNotifications)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}
