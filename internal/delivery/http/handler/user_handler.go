package handler

import (
	"context"
	"errors"

	"hirehub/internal/delivery/http/dto"
	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/domain/user"
	"hirehub/internal/pkg/response"
	useruc "hirehub/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const MessageUserNotFound = "User not found"

type UserUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in useruc.UpdateProfileInput) (user.User, error)
	ListAppliedJobs(ctx context.Context, userID uuid.UUID) ([]useruc.AppliedJob, error)
}

type UserHandler struct {
	uc UserUsecase
}

type updateProfileRequest struct {
	FullName *string   `json:"fullName" validate:"omitempty,max=120"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone" validate:"omitempty,max=40"`
	Address  *string   `json:"address" validate:"omitempty,max=300"`
	Bio      *string   `json:"bio"`
	Avatar   *string   `json:"avatar" validate:"omitempty,max=500"`
	Skills   *[]string `json:"skills" validate:"omitempty,dive,max=60"`
	Password *string   `json:"password" validate:"omitempty,min=8"`
}

func NewUserHandler(uc UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Get("/me/applied-jobs", h.AppliedJobs)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return err
	}

	u, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewUserProfileResponse(u))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	u, err := h.uc.UpdateProfile(c.Context(), userID, useruc.UpdateProfileInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
		Skills:   req.Skills,
		Password: req.Password,
	})
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewUserProfileResponse(u))
}

func (h *UserHandler) AppliedJobs(c fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return err
	}

	rows, err := h.uc.ListAppliedJobs(c.Context(), userID)
	if err != nil {
		return mapUserUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewAppliedJobListResponse(rows))
}

func mapUserUsecaseError(err error) error {
	switch {
	case errors.Is(err, useruc.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessageUserNotFound, err)
	case errors.Is(err, useruc.ErrEmailTaken):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", err)
	case errors.Is(err, useruc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidPayload, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
