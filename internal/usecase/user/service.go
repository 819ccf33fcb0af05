package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hirehub/internal/domain/job"
	"hirehub/internal/domain/user"
	"hirehub/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

type UpdateProfileInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
	Bio      *string
	Avatar   *string
	Skills   *[]string
	Password *string
}

// AppliedJob is one row of a user's applied-jobs view. Status is the caller's own decision.
type AppliedJob struct {
	JobID   uuid.UUID
	Title   string
	Company *job.CompanySummary
	Salary  string
	Status  job.Status
}

type Service struct {
	users user.Repository
	jobs  job.Repository
}

func NewService(users user.Repository, jobs job.Repository) *Service {
	return &Service{users: users, jobs: jobs}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (user.User, error) {
	usr, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, mapRepoError(err)
	}
	return sanitizeUser(usr), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (user.User, error) {
	p := user.Patch{
		FullName: trimmed(in.FullName),
		Phone:    trimmed(in.Phone),
		Address:  trimmed(in.Address),
		Bio:      in.Bio,
		Avatar:   trimmed(in.Avatar),
		Skills:   in.Skills,
	}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return user.User{}, ErrInvalidInput
		}
		p.Email = &email
	}
	if in.FullName != nil && *p.FullName == "" {
		return user.User{}, ErrInvalidInput
	}

	if in.Password != nil {
		hash, err := password.Hash(*in.Password)
		if err != nil {
			if errors.Is(err, password.ErrTooShort) {
				return user.User{}, ErrInvalidInput
			}
			return user.User{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		p.PasswordHash = &hash
	}

	if p.IsEmpty() {
		return user.User{}, ErrInvalidInput
	}

	updated, err := s.users.Update(ctx, userID, p)
	if err != nil {
		return user.User{}, mapRepoError(err)
	}
	return sanitizeUser(updated), nil
}

// ListAppliedJobs returns every job carrying an application from userID.
func (s *Service) ListAppliedJobs(ctx context.Context, userID uuid.UUID) ([]AppliedJob, error) {
	jobs, err := s.jobs.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	out := make([]AppliedJob, 0, len(jobs))
	for i := range jobs {
		a, ok := jobs[i].FindApplication(userID)
		if !ok {
			continue
		}
		out = append(out, AppliedJob{
			JobID:   jobs[i].ID,
			Title:   jobs[i].Title,
			Company: jobs[i].Company,
			Salary:  jobs[i].Salary,
			Status:  a.Status,
		})
	}
	return out, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, user.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, user.ErrEmailTaken):
		return ErrEmailTaken
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
