package usecase

import (
	"context"
	"errors"
	"fmt"

	"hirehub/internal/domain/company"
	"hirehub/internal/domain/user"
	"hirehub/internal/pkg/jwt"
	ucauth "hirehub/internal/usecase/auth"
)

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrInternal            = errors.New("internal error")
)

// Session is an authenticated principal with a fresh token pair.
type Session struct {
	Principal    ucauth.Principal
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	RegisterUser(ctx context.Context, in ucauth.RegisterUserInput) (Session, error)
	RegisterCompany(ctx context.Context, in ucauth.RegisterCompanyInput) (Session, error)
	Login(ctx context.Context, in ucauth.LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Auth struct {
	authSvc *ucauth.Service
	jwt     jwt.Service
}

func NewAuthUsecase(users user.Repository, companies company.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users, companies), jwt: jwtSvc}
}

func (u *Auth) RegisterUser(ctx context.Context, in ucauth.RegisterUserInput) (Session, error) {
	p, err := u.authSvc.RegisterUser(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.issue(p)
}

func (u *Auth) RegisterCompany(ctx context.Context, in ucauth.RegisterCompanyInput) (Session, error) {
	p, err := u.authSvc.RegisterCompany(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.issue(p)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (Session, error) {
	p, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.issue(p)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrRefreshTokenExpired
		}
		return Session{}, ErrInvalidRefreshToken
	}
	if !u.jwt.IsRefreshToken(claims) {
		return Session{}, ErrInvalidRefreshToken
	}

	p, err := u.authSvc.Lookup(ctx, claims.UserID, claims.Role)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, company.ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return u.issue(p)
}

func (u *Auth) issue(p ucauth.Principal) (Session, error) {
	access, err := u.jwt.GenerateAccessToken(p.ID, p.Email, p.Role)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	refresh, err := u.jwt.GenerateRefreshToken(p.ID, p.Role)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return Session{Principal: p, AccessToken: access, RefreshToken: refresh}, nil
}
