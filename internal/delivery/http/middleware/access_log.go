package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxRequestIDKey = "request_id"

// AccessLogMiddleware tags every request with an X-Request-ID and logs one line once it completes.
type AccessLogMiddleware struct {
	logger *log.Logger
	skip   map[string]struct{}
}

// NewAccessLogMiddleware logs every path except the ones listed in quiet, such as /health checks.
func NewAccessLogMiddleware(logger *log.Logger, quiet ...string) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}
	return &AccessLogMiddleware{logger: logger, skip: skip}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		rid := c.Get(fiber.HeaderXRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		if _, quiet := m.skip[c.Path()]; quiet {
			return err
		}
		m.logger.Printf("[HTTP] %s %s status=%d latency=%s principal=%s ip=%s rid=%s bytes=%d",
			c.Method(), c.OriginalURL(), c.Response().StatusCode(),
			time.Since(start).Round(time.Microsecond), principalLabel(c), c.IP(), rid, len(c.Response().Body()),
		)
		return err
	}
}

// RequestID returns the id assigned by AccessLogMiddleware, or "-" when it did not run.
func RequestID(c fiber.Ctx) string {
	if rid, ok := c.Locals(CtxRequestIDKey).(string); ok && rid != "" {
		return rid
	}
	return "-"
}

func principalLabel(c fiber.Ctx) string {
	id, ok := PrincipalID(c)
	if !ok {
		return "anonymous"
	}
	return PrincipalRole(c) + ":" + id.String()
}
