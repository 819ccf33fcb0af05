package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hirehub/internal/domain/job"
	"hirehub/internal/domain/user"
	"hirehub/internal/pkg/password"

	"github.com/google/uuid"
)

type memUserRepo struct {
	users   map[uuid.UUID]user.User
	patches []user.Patch
}

func (m *memUserRepo) Create(_ context.Context, u user.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUserRepo) Update(_ context.Context, id uuid.UUID, p user.Patch) (user.User, error) {
	m.patches = append(m.patches, p)
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if p.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *p.Email {
				return user.User{}, user.ErrEmailTaken
			}
		}
		u.Email = *p.Email
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Skills != nil {
		u.Skills = *p.Skills
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	m.users[id] = u
	return u, nil
}

type stubJobRepo struct {
	job.Repository
	jobs []job.Job
	err  error
}

func (s stubJobRepo) ListByApplicant(_ context.Context, userID uuid.UUID) ([]job.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]job.Job, 0)
	for _, j := range s.jobs {
		if j.HasApplicant(userID) {
			out = append(out, j)
		}
	}
	return out, nil
}

func TestGetProfile_HidesPasswordHash(t *testing.T) {
	id := uuid.New()
	repo := &memUserRepo{users: map[uuid.UUID]user.User{id: {ID: id, FullName: "Ana", PasswordHash: "hash"}}}
	svc := NewService(repo, stubJobRepo{})

	u, err := svc.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped")
	}

	if _, err := svc.GetProfile(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_HashesPassword(t *testing.T) {
	id := uuid.New()
	repo := &memUserRepo{users: map[uuid.UUID]user.User{id: {ID: id, FullName: "Ana", Email: "ana@example.com"}}}
	svc := NewService(repo, stubJobRepo{})

	plain := "correct-horse"
	phone := " 0812 "
	u, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{Password: &plain, Phone: &phone})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Phone != "0812" {
		t.Fatalf("expected trimmed phone, got %q", u.Phone)
	}

	stored := repo.users[id].PasswordHash
	if stored == "" || stored == plain || strings.Contains(stored, plain) {
		t.Fatalf("expected hashed password, got %q", stored)
	}
	if !password.Compare(stored, plain) {
		t.Fatalf("stored hash does not verify")
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected hash stripped from response")
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	repo := &memUserRepo{users: map[uuid.UUID]user.User{
		id:    {ID: id, Email: "ana@example.com"},
		other: {ID: other, Email: "budi@example.com"},
	}}
	svc := NewService(repo, stubJobRepo{})
	ctx := context.Background()

	short := "short"
	if _, err := svc.UpdateProfile(ctx, id, UpdateProfileInput{Password: &short}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, id, UpdateProfileInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}
	blank := "  "
	if _, err := svc.UpdateProfile(ctx, id, UpdateProfileInput{Email: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank email, got %v", err)
	}

	taken := "BUDI@example.com"
	if _, err := svc.UpdateProfile(ctx, id, UpdateProfileInput{Email: &taken}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	last := repo.patches[len(repo.patches)-1]
	if last.Email == nil || *last.Email != "budi@example.com" {
		t.Fatalf("expected normalized email in patch, got %+v", last.Email)
	}
}

func TestListAppliedJobs_UsesCallersOwnStatus(t *testing.T) {
	me, someoneElse := uuid.New(), uuid.New()
	acme := &job.CompanySummary{ID: uuid.New(), CompanyName: "Acme"}

	jobs := stubJobRepo{jobs: []job.Job{
		{
			ID: uuid.New(), Title: "Backend", Salary: "10M", Company: acme,
			Applications: []job.Application{
				{UserID: someoneElse, Status: job.StatusRejected},
				{UserID: me, Status: job.StatusApproved},
			},
		},
		{
			ID: uuid.New(), Title: "Frontend", Company: acme,
			Applications: []job.Application{{UserID: someoneElse, Status: job.StatusApproved}},
		},
		{
			ID: uuid.New(), Title: "QA", Company: acme,
			Applications: []job.Application{{UserID: me, Status: job.StatusPending}},
		},
	}}
	svc := NewService(&memUserRepo{users: map[uuid.UUID]user.User{}}, jobs)

	got, err := svc.ListAppliedJobs(context.Background(), me)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 applied jobs, got %d", len(got))
	}
	if got[0].Title != "Backend" || got[0].Status != job.StatusApproved || got[0].Salary != "10M" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[0].Company == nil || got[0].Company.CompanyName != "Acme" {
		t.Fatalf("expected company attached, got %+v", got[0].Company)
	}
	if got[1].Title != "QA" || got[1].Status != job.StatusPending {
		t.Fatalf("unexpected second row %+v", got[1])
	}

	empty, err := svc.ListAppliedJobs(context.Background(), uuid.New())
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v %v", empty, err)
	}
}

func TestListAppliedJobs_RepoError(t *testing.T) {
	svc := NewService(&memUserRepo{}, stubJobRepo{err: errors.New("db down")})
	if _, err := svc.ListAppliedJobs(context.Background(), uuid.New()); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
