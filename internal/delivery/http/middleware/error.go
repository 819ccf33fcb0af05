package middleware

import (
	"errors"
	"log"
	"runtime/debug"

	"hirehub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// AppError is what handlers return for a known failure. Message is shown to the client as is.
type AppError struct {
	StatusCode int
	Message    string
	Cause      error
}

func NewAppError(statusCode int, message string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Cause: cause}
}

func (e *AppError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Cause == nil:
		return e.Message
	default:
		return e.Message + ": " + e.Cause.Error()
	}
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ErrorMiddleware renders handler errors and panics as {message, error?}.
// The error field is only filled for 5xx responses when exposeErrors is set.
type ErrorMiddleware struct {
	logger       *log.Logger
	exposeErrors bool
}

func NewErrorMiddleware(logger *log.Logger, exposeErrors bool) *ErrorMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &ErrorMiddleware{logger: logger, exposeErrors: exposeErrors}
}

type failure struct {
	status  int
	message string
	cause   error
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Printf("[HTTP] Panic: %s %s rid=%s panic=%v\n%s", c.Method(), c.Path(), RequestID(c), r, debug.Stack())
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, "")
			}
		}()

		if err = c.Next(); err == nil {
			return nil
		}

		f := classify(err)
		if f.status < fiber.StatusInternalServerError {
			return response.Error(c, f.status, f.message, "")
		}

		m.logger.Printf("[HTTP] Failed: %s %s rid=%s status=%d err=%v", c.Method(), c.Path(), RequestID(c), f.status, err)
		detail := ""
		if m.exposeErrors && f.cause != nil {
			detail = f.cause.Error()
		}
		return response.Error(c, f.status, f.message, detail)
	}
}

// classify maps AppError and fiber.Error to a response; anything else is a 500.
func classify(err error) failure {
	var appErr *AppError
	if errors.As(err, &appErr) {
		f := failure{status: appErr.StatusCode, message: appErr.Message, cause: appErr.Cause}
		if f.status <= 0 {
			f.status = fiber.StatusInternalServerError
		}
		if f.message == "" {
			f.message = response.DefaultMessageForStatus(f.status)
		}
		return f
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code > 0 && fiberErr.Code < fiber.StatusInternalServerError {
		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessageForStatus(fiberErr.Code)
		}
		return failure{status: fiberErr.Code, message: msg}
	}

	return failure{status: fiber.StatusInternalServerError, message: response.MessageInternalServerError, cause: err}
}
