package job

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// CompanySummary is the public slice of a company attached to a job at read time.
type CompanySummary struct {
	ID          uuid.UUID
	CompanyName string
	Email       string
	CompanyLogo string
}

// Application is one user's CV submission embedded in a job.
type Application struct {
	UserID    uuid.UUID
	FilePath  string
	Status    Status
	AppliedAt time.Time
}

type Job struct {
	ID                  uuid.UUID
	CompanyID           uuid.UUID
	Title               string
	Position            string
	Experience          string
	Vacancies           int
	EmploymentType      string
	GenderRequirement   string
	Salary              string
	Location            string
	Description         string
	ApplicationDeadline *time.Time
	Skills              []string
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Company *CompanySummary

	// Applications keeps submission order.
	Applications []Application
}

// Applicants returns the applicant user ids in submission order.
func (j Job) Applicants() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(j.Applications))
	for _, a := range j.Applications {
		out = append(out, a.UserID)
	}
	return out
}

// FindApplication scans the embedded applications for userID.
func (j *Job) FindApplication(userID uuid.UUID) (*Application, bool) {
	for i := range j.Applications {
		if j.Applications[i].UserID == userID {
			return &j.Applications[i], true
		}
	}
	return nil, false
}

func (j *Job) HasApplicant(userID uuid.UUID) bool {
	_, ok := j.FindApplication(userID)
	return ok
}

// Patch carries the allow-listed job fields a company may change. Nil means unchanged.
type Patch struct {
	Title               *string
	Position            *string
	Experience          *string
	Vacancies           *int
	EmploymentType      *string
	GenderRequirement   *string
	Salary              *string
	Location            *string
	Description         *string
	ApplicationDeadline *time.Time
	Skills              *[]string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil &&
		p.Position == nil &&
		p.Experience == nil &&
		p.Vacancies == nil &&
		p.EmploymentType == nil &&
		p.GenderRequirement == nil &&
		p.Salary == nil &&
		p.Location == nil &&
		p.Description == nil &&
		p.ApplicationDeadline == nil &&
		p.Skills == nil
}

// Applicant is an application joined with the applicant's user record.
type Applicant struct {
	UserID   uuid.UUID
	FullName string
	Email    string
	FilePath string
	Status   Status
}
