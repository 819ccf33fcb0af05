package handler

import (
	"errors"

	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/pkg/validation"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const messageInvalidPayload = "Invalid request payload"

// bindBody decodes and validates the JSON body through the app's StructValidator.
func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return middleware.NewAppError(fiber.StatusBadRequest, verr.Error(), err)
		}
		return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidPayload, err)
	}
	return nil
}

func principalID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.PrincipalID(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageUnauthorized, nil)
	}
	return id, nil
}

func uuidParam(c fiber.Ctx, name, notFoundMessage string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusNotFound, notFoundMessage, nil)
	}
	return id, nil
}
