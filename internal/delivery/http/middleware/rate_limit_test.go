package middleware

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func TestRateLimiter_RejectsAfterBurst(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(log.New(io.Discard, "", 0), false).Middleware())
	app.Use(NewRateLimiter(1, 2, nil).Middleware())
	app.Post("/login", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	want := []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}
	for i, status := range want {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != status {
			t.Fatalf("request %d: expected %d, got %d", i, status, resp.StatusCode)
		}
		if status == fiber.StatusTooManyRequests && resp.Header.Get(fiber.HeaderRetryAfter) == "" {
			t.Fatalf("expected Retry-After header")
		}
	}
}

func TestRateLimiter_RefillsAndSweeps(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewRateLimiter(60, 1, nil)
	l.now = func() time.Time { return now }

	if !l.allow("10.0.0.1") {
		t.Fatalf("first request must pass")
	}
	if l.allow("10.0.0.1") {
		t.Fatalf("second request within the same second must be throttled")
	}
	if !l.allow("10.0.0.2") {
		t.Fatalf("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.allow("10.0.0.1") {
		t.Fatalf("bucket should refill after one second")
	}

	now = now.Add(limiterIdleTTL + time.Minute)
	l.allow("10.0.0.3")
	if got := l.trackedClients(); got != 1 {
		t.Fatalf("expected idle clients swept, tracking %d", got)
	}
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(NewRateLimiter(0, 0, nil).Middleware())
	app.Get("/", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	}
}
