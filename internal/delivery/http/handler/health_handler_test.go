package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubConns int

func (n stubConns) ClientCount() int { return int(n) }

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name       string
		db, cache  Pinger
		conns      ConnCounter
		wantStatus int
		want       healthResponse
	}{
		{"all up", stubPinger{}, stubPinger{}, stubConns(3), fiber.StatusOK, healthResponse{"ok", "up", "up", 3}},
		{"cache down", stubPinger{}, stubPinger{errors.New("refused")}, stubConns(0), fiber.StatusOK, healthResponse{"ok", "up", "down", 0}},
		{"no cache", stubPinger{}, nil, stubConns(1), fiber.StatusOK, healthResponse{"ok", "up", "disabled", 1}},
		{"no hub", stubPinger{}, stubPinger{}, nil, fiber.StatusOK, healthResponse{"ok", "up", "up", 0}},
		{"db down", stubPinger{errors.New("refused")}, stubPinger{}, stubConns(2), fiber.StatusServiceUnavailable, healthResponse{"degraded", "down", "up", 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(tc.db, tc.cache, tc.conns).RegisterRoutes(app)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.StatusCode)
			}
			var got healthResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
