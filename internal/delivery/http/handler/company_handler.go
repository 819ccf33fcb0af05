package handler

import (
	"context"
	"errors"

	"hirehub/internal/delivery/http/dto"
	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/domain/company"
	"hirehub/internal/pkg/response"
	companyuc "hirehub/internal/usecase/company"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CompanyUsecase interface {
	GetProfile(ctx context.Context, companyID uuid.UUID) (company.Company, error)
	UpdateProfile(ctx context.Context, companyID uuid.UUID, in companyuc.UpdateProfileInput) (company.Company, error)
}

type CompanyHandler struct {
	uc CompanyUsecase
}

type updateCompanyRequest struct {
	CompanyName *string `json:"companyName" validate:"omitempty,max=160"`
	CompanyLogo *string `json:"companyLogo" validate:"omitempty,max=500"`
	Description *string `json:"description"`
	Website     *string `json:"website" validate:"omitempty,max=300"`
	Location    *string `json:"location" validate:"omitempty,max=200"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
}

func NewCompanyHandler(uc CompanyUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
}

func (h *CompanyHandler) GetMe(c fiber.Ctx) error {
	companyID, err := principalID(c)
	if err != nil {
		return err
	}

	co, err := h.uc.GetProfile(c.Context(), companyID)
	if err != nil {
		return mapCompanyUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewCompanyProfileResponse(co))
}

func (h *CompanyHandler) UpdateMe(c fiber.Ctx) error {
	companyID, err := principalID(c)
	if err != nil {
		return err
	}

	var req updateCompanyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	co, err := h.uc.UpdateProfile(c.Context(), companyID, companyuc.UpdateProfileInput{
		CompanyName: req.CompanyName,
		CompanyLogo: req.CompanyLogo,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Password:    req.Password,
	})
	if err != nil {
		return mapCompanyUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewCompanyProfileResponse(co))
}

func mapCompanyUsecaseError(err error) error {
	switch {
	case errors.Is(err, companyuc.ErrCompanyNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessageCompanyNotFound, err)
	case errors.Is(err, companyuc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidPayload, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
