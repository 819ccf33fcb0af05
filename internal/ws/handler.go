package ws

import (
	"log"
	"net/http"
	"strings"

	"hirehub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
)

// Handler upgrades authenticated requests and attaches the socket to the hub under the caller's id.
type Handler struct {
	hub      *Hub
	jwt      jwt.Service
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, jwtSvc jwt.Service, logger *log.Logger) *Handler {
	return &Handler{
		hub:    hub,
		jwt:    jwtSvc,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// HandleNotifications accepts the access token from the token query parameter
// because browsers cannot set headers on WebSocket requests. The Authorization header also works.
func (h *Handler) HandleNotifications(c fiber.Ctx) error {
	if h == nil || h.hub == nil || h.jwt == nil {
		return fiber.ErrServiceUnavailable
	}

	claims, ok := h.authenticate(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.Printf("[WS] Upgrade failed: principal=%s err=%v", claims.UserID, err)
			}
			return
		}
		client := NewClient(h.hub, conn, claims.UserID, claims.Role)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})(c)
}

func (h *Handler) authenticate(c fiber.Ctx) (jwt.Claims, bool) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		token, _ = jwt.BearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		return jwt.Claims{}, false
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil || claims.TokenType != jwt.TokenTypeAccess {
		return jwt.Claims{}, false
	}
	return claims, true
}
