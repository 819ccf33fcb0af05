package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound             = errors.New("job not found")
	ErrDuplicateApplication = errors.New("application already exists")
	ErrApplicationNotFound  = errors.New("application not found")
)

type Repository interface {
	// List returns every job newest first with company and applications loaded.
	List(ctx context.Context) ([]Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Job, error)
	ListByApplicant(ctx context.Context, userID uuid.UUID) ([]Job, error)

	Create(ctx context.Context, j Job) (Job, error)
	Update(ctx context.Context, id uuid.UUID, p Patch) (Job, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListApplicants(ctx context.Context, jobID uuid.UUID) ([]Applicant, error)

	// AddApplication appends a only if a.UserID has not applied yet. It returns
	// ErrDuplicateApplication when the pair exists and ErrNotFound when the job is gone.
	AddApplication(ctx context.Context, jobID uuid.UUID, a Application) error
	UpdateApplicationStatus(ctx context.Context, jobID, userID uuid.UUID, status Status) error
}
