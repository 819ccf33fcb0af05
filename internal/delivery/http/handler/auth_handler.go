package handler

import (
	"errors"

	"hirehub/internal/delivery/http/dto"
	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/pkg/jwt"
	"hirehub/internal/pkg/response"
	"hirehub/internal/usecase"
	ucauth "hirehub/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type registerUserRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type registerCompanyRequest struct {
	CompanyName string `json:"companyName" validate:"required,max=160"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	CompanyLogo string `json:"companyLogo" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user company"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/register/user", h.RegisterUser)
	r.Post("/register/company", h.RegisterCompany)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) RegisterUser(c fiber.Ctx) error {
	var req registerUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	s, err := h.uc.RegisterUser(c.Context(), ucauth.RegisterUserInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, sessionResponse(s))
}

func (h *AuthHandler) RegisterCompany(c fiber.Ctx) error {
	var req registerCompanyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	s, err := h.uc.RegisterCompany(c.Context(), ucauth.RegisterCompanyInput{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Password:    req.Password,
		CompanyLogo: req.CompanyLogo,
	})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, sessionResponse(s))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req loginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	s, err := h.uc.Login(c.Context(), ucauth.LoginInput{Email: req.Email, Password: req.Password, Role: req.Role})
	if err != nil {
		return mapAuthUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, sessionResponse(s))
}

func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := jwt.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageUnauthorized, nil)
	}

	s, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshTokenExpired):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Refresh token expired", err)
		case errors.Is(err, usecase.ErrInvalidRefreshToken):
			return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid refresh token", err)
		case errors.Is(err, usecase.ErrUnauthorized):
			return middleware.NewAppError(fiber.StatusUnauthorized, middleware.MessageUnauthorized, err)
		default:
			return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
		}
	}
	return response.JSON(c, fiber.StatusOK, sessionResponse(s))
}

func sessionResponse(s usecase.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Principal: dto.PrincipalResponse{
			ID:    s.Principal.ID,
			Name:  s.Principal.Name,
			Email: s.Principal.Email,
			Role:  s.Principal.Role,
		},
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}

func mapAuthUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucauth.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, "Email already registered", err)
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, ucauth.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidPayload, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
