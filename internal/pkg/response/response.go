package response

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// MessageResponse is the body of every error and every message-only success.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageInternalServerError never carries the underlying cause; that goes in Error when exposed.
const MessageInternalServerError = "Internal server error"

// JSON writes data as the bare response body.
func JSON(c fiber.Ctx, status int, data any) error {
	return c.Status(validStatus(status)).JSON(data)
}

func Message(c fiber.Ctx, status int, message string) error {
	return write(c, status, MessageResponse{Message: message})
}

// Error writes {message, error}. An empty detail drops the error field.
func Error(c fiber.Ctx, status int, message, detail string) error {
	return write(c, status, MessageResponse{Message: message, Error: detail})
}

func write(c fiber.Ctx, status int, body MessageResponse) error {
	status = validStatus(status)
	if body.Message == "" {
		body.Message = DefaultMessageForStatus(status)
	}
	return c.Status(status).JSON(body)
}

func validStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

// DefaultMessageForStatus is the reason phrase for status, or the generic 5xx message.
func DefaultMessageForStatus(status int) string {
	if status >= 500 {
		return MessageInternalServerError
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Error"
}
