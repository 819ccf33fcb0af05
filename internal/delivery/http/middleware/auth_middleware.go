package middleware

import (
	"errors"

	"hirehub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

const (
	MessageAccessDenied = "Access denied"
	MessageUnauthorized = "Unauthorized"
	messageTokenExpired = "Token expired"
	messageTokenInvalid = "Invalid token"
)

// AuthMiddleware admits requests carrying a valid access token and stores the principal in Locals.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, err := m.authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, claims.Role)
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(header string) (jwt.Claims, error) {
	token, ok := jwt.BearerToken(header)
	if !ok {
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, MessageUnauthorized, nil)
	}
	claims, err := m.jwt.ValidateToken(token)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, messageTokenExpired, err)
	case err != nil:
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, messageTokenInvalid, err)
	case m.jwt.IsRefreshToken(claims), claims.TokenType != jwt.TokenTypeAccess:
		return jwt.Claims{}, NewAppError(fiber.StatusUnauthorized, messageTokenInvalid, nil)
	}
	return claims, nil
}

// RequireRole must run after Middleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c fiber.Ctx) error {
		role, _ := c.Locals(CtxRoleKey).(string)
		if _, ok := allowed[role]; !ok {
			return NewAppError(fiber.StatusForbidden, MessageAccessDenied, nil)
		}
		return c.Next()
	}
}

func PrincipalID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// PrincipalRole is the role of the authenticated caller, or "" before Middleware ran.
func PrincipalRole(c fiber.Ctx) string {
	role, _ := c.Locals(CtxRoleKey).(string)
	return role
}
