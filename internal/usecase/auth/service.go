package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hirehub/internal/domain/company"
	"hirehub/internal/domain/user"
	"hirehub/internal/pkg/jwt"
	"hirehub/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

type RegisterUserInput struct {
	FullName string
	Email    string
	Password string
}

type RegisterCompanyInput struct {
	CompanyName string
	Email       string
	Password    string
	CompanyLogo string
}

type LoginInput struct {
	Email    string
	Password string
	Role     string
}

// Principal is an authenticated caller of either role.
type Principal struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  string
}

type Service struct {
	users     user.Repository
	companies company.Repository
}

func NewService(users user.Repository, companies company.Repository) *Service {
	return &Service{users: users, companies: companies}
}

func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (Principal, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.FullName)
	if email == "" || name == "" {
		return Principal{}, ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if exists {
		return Principal{}, ErrEmailAlreadyRegistered
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return Principal{}, err
	}

	u := user.User{
		ID:           uuid.New(),
		FullName:     name,
		Email:        email,
		PasswordHash: hash,
		Skills:       []string{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Principal{}, ErrEmailAlreadyRegistered
		}
		return Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return Principal{ID: u.ID, Email: u.Email, Name: u.FullName, Role: jwt.RoleUser}, nil
}

func (s *Service) RegisterCompany(ctx context.Context, in RegisterCompanyInput) (Principal, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.CompanyName)
	if email == "" || name == "" {
		return Principal{}, ErrInvalidInput
	}

	exists, err := s.companies.ExistsByEmail(ctx, email)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if exists {
		return Principal{}, ErrEmailAlreadyRegistered
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return Principal{}, err
	}

	c := company.Company{
		ID:           uuid.New(),
		CompanyName:  name,
		Email:        email,
		PasswordHash: hash,
		CompanyLogo:  strings.TrimSpace(in.CompanyLogo),
	}
	if err := s.companies.Create(ctx, c); err != nil {
		if errors.Is(err, company.ErrEmailTaken) {
			return Principal{}, ErrEmailAlreadyRegistered
		}
		return Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return Principal{ID: c.ID, Email: c.Email, Name: c.CompanyName, Role: jwt.RoleCompany}, nil
}

// Login checks credentials against the account table of the requested role.
func (s *Service) Login(ctx context.Context, in LoginInput) (Principal, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Principal{}, ErrInvalidCredentials
	}

	switch in.Role {
	case jwt.RoleUser:
		u, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return Principal{}, ErrInvalidCredentials
			}
			return Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		if !password.Compare(u.PasswordHash, in.Password) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{ID: u.ID, Email: u.Email, Name: u.FullName, Role: jwt.RoleUser}, nil

	case jwt.RoleCompany:
		c, err := s.companies.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, company.ErrNotFound) {
				return Principal{}, ErrInvalidCredentials
			}
			return Principal{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		if !password.Compare(c.PasswordHash, in.Password) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{ID: c.ID, Email: c.Email, Name: c.CompanyName, Role: jwt.RoleCompany}, nil

	default:
		return Principal{}, ErrInvalidInput
	}
}

// Lookup resolves a principal by id within role, for token refresh.
func (s *Service) Lookup(ctx context.Context, id uuid.UUID, role string) (Principal, error) {
	switch role {
	case jwt.RoleUser:
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return Principal{}, err
		}
		return Principal{ID: u.ID, Email: u.Email, Name: u.FullName, Role: role}, nil
	case jwt.RoleCompany:
		c, err := s.companies.GetByID(ctx, id)
		if err != nil {
			return Principal{}, err
		}
		return Principal{ID: c.ID, Email: c.Email, Name: c.CompanyName, Role: role}, nil
	default:
		return Principal{}, ErrInvalidInput
	}
}

func hashPassword(plain string) (string, error) {
	hash, err := password.Hash(plain)
	if err != nil {
		if errors.Is(err, password.ErrTooShort) {
			return "", ErrInvalidInput
		}
		return "", fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
