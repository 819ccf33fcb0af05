package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hirehub/internal/domain/company"
	"hirehub/internal/domain/user"
	"hirehub/internal/pkg/jwt"
	ucauth "hirehub/internal/usecase/auth"

	"github.com/google/uuid"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]user.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[uuid.UUID]user.User{}} }

func (m *memUsers) Create(_ context.Context, u user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUsers) Update(context.Context, uuid.UUID, user.Patch) (user.User, error) {
	return user.User{}, errors.New("not implemented")
}

type memCompanies struct {
	companies map[uuid.UUID]company.Company
}

func newMemCompanies() *memCompanies {
	return &memCompanies{companies: map[uuid.UUID]company.Company{}}
}

func (m *memCompanies) Create(_ context.Context, c company.Company) error {
	for _, existing := range m.companies {
		if existing.Email == c.Email {
			return company.ErrEmailTaken
		}
	}
	m.companies[c.ID] = c
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	return c, nil
}

func (m *memCompanies) GetByEmail(_ context.Context, email string) (company.Company, error) {
	for _, c := range m.companies {
		if c.Email == email {
			return c, nil
		}
	}
	return company.Company{}, company.ErrNotFound
}

func (m *memCompanies) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memCompanies) Update(context.Context, uuid.UUID, company.Patch) (company.Company, error) {
	return company.Company{}, errors.New("not implemented")
}

func newTestAuth() (*Auth, *memUsers, *memCompanies, *jwt.HMACService) {
	users := newMemUsers()
	companies := newMemCompanies()
	svc := jwt.NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthUsecase(users, companies, svc), users, companies, svc
}

func TestAuth_RegisterUser_StoresHashAndIssuesTokens(t *testing.T) {
	auth, users, _, tokens := newTestAuth()

	s, err := auth.RegisterUser(context.Background(), ucauth.RegisterUserInput{
		FullName: "Ana",
		Email:    " Ana@Example.com ",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Principal.Email != "ana@example.com" || s.Principal.Role != jwt.RoleUser {
		t.Fatalf("unexpected principal %+v", s.Principal)
	}

	stored := users.users[s.Principal.ID]
	if stored.PasswordHash == "" || stored.PasswordHash == "password123" {
		t.Fatalf("expected hashed password, got %q", stored.PasswordHash)
	}

	claims, err := tokens.ValidateToken(s.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.UserID != s.Principal.ID || claims.Role != jwt.RoleUser || claims.TokenType != jwt.TokenTypeAccess {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	auth, _, _, _ := newTestAuth()
	ctx := context.Background()

	in := ucauth.RegisterCompanyInput{CompanyName: "Acme", Email: "hr@acme.test", Password: "password123"}
	if _, err := auth.RegisterCompany(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	in.Email = "HR@acme.test"
	if _, err := auth.RegisterCompany(ctx, in); !errors.Is(err, ucauth.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}

	short := ucauth.RegisterUserInput{FullName: "Ana", Email: "ana@example.com", Password: "short"}
	if _, err := auth.RegisterUser(ctx, short); !errors.Is(err, ucauth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuth_LoginChecksRoleTable(t *testing.T) {
	auth, _, _, _ := newTestAuth()
	ctx := context.Background()

	if _, err := auth.RegisterCompany(ctx, ucauth.RegisterCompanyInput{
		CompanyName: "Acme", Email: "hr@acme.test", Password: "password123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	s, err := auth.Login(ctx, ucauth.LoginInput{Email: "hr@acme.test", Password: "password123", Role: jwt.RoleCompany})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Principal.Role != jwt.RoleCompany || s.AccessToken == "" || s.RefreshToken == "" {
		t.Fatalf("unexpected session %+v", s)
	}

	if _, err := auth.Login(ctx, ucauth.LoginInput{Email: "hr@acme.test", Password: "password123", Role: jwt.RoleUser}); !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong role, got %v", err)
	}
	if _, err := auth.Login(ctx, ucauth.LoginInput{Email: "hr@acme.test", Password: "wrong-pass", Role: jwt.RoleCompany}); !errors.Is(err, ucauth.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := auth.Login(ctx, ucauth.LoginInput{Email: "hr@acme.test", Password: "password123", Role: "admin"}); !errors.Is(err, ucauth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
}

func TestAuth_Refresh(t *testing.T) {
	auth, _, _, tokens := newTestAuth()
	ctx := context.Background()

	s, err := auth.RegisterUser(ctx, ucauth.RegisterUserInput{FullName: "Ana", Email: "ana@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	next, err := auth.Refresh(ctx, s.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.Principal.ID != s.Principal.ID || next.AccessToken == "" {
		t.Fatalf("unexpected session %+v", next)
	}

	if _, err := auth.Refresh(ctx, s.AccessToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for access token, got %v", err)
	}
	if _, err := auth.Refresh(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	ghost, _ := tokens.GenerateRefreshToken(uuid.New(), jwt.RoleUser)
	if _, err := auth.Refresh(ctx, ghost); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted principal, got %v", err)
	}
}
