package dto

import (
	"time"

	"hirehub/internal/domain/job"
	ucuser "hirehub/internal/usecase/user"

	"github.com/google/uuid"
)

type CompanySummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
	CompanyLogo string    `json:"companyLogo"`
}

type CVFileResponse struct {
	User     uuid.UUID `json:"user"`
	FilePath string    `json:"filePath"`
	Status   string    `json:"status"`
}

type JobResponse struct {
	ID                  uuid.UUID               `json:"id"`
	Title               string                  `json:"title"`
	Position            string                  `json:"position"`
	Experience          string                  `json:"experience"`
	Vacancies           int                     `json:"vacancies"`
	EmploymentType      string                  `json:"employmentType"`
	GenderRequirement   string                  `json:"genderRequirement"`
	Salary              string                  `json:"salary"`
	Location            string                  `json:"location"`
	Description         string                  `json:"description"`
	ApplicationDeadline *time.Time              `json:"applicationDeadline"`
	Skills              []string                `json:"skills"`
	Company             *CompanySummaryResponse `json:"company"`
	Applicants          []uuid.UUID             `json:"applicants"`
	CVFiles             []CVFileResponse        `json:"cvFiles"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

type ApplicantResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
	CVFile   string    `json:"cvFile"`
	Status   string    `json:"status"`
}

type AppliedJobResponse struct {
	JobID   uuid.UUID               `json:"jobId"`
	Title   string                  `json:"title"`
	Company *CompanySummaryResponse `json:"company"`
	Salary  string                  `json:"salary"`
	Status  string                  `json:"status"`
}

func NewCompanySummaryResponse(c *job.CompanySummary) *CompanySummaryResponse {
	if c == nil {
		return nil
	}
	return &CompanySummaryResponse{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Email:       c.Email,
		CompanyLogo: c.CompanyLogo,
	}
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	cvFiles := make([]CVFileResponse, 0, len(j.Applications))
	for _, a := range j.Applications {
		cvFiles = append(cvFiles, CVFileResponse{User: a.UserID, FilePath: a.FilePath, Status: string(a.Status)})
	}

	return JobResponse{
		ID:                  j.ID,
		Title:               j.Title,
		Position:            j.Position,
		Experience:          j.Experience,
		Vacancies:           j.Vacancies,
		EmploymentType:      j.EmploymentType,
		GenderRequirement:   j.GenderRequirement,
		Salary:              j.Salary,
		Location:            j.Location,
		Description:         j.Description,
		ApplicationDeadline: j.ApplicationDeadline,
		Skills:              skills,
		Company:             NewCompanySummaryResponse(j.Company),
		Applicants:          j.Applicants(),
		CVFiles:             cvFiles,
		CreatedAt:           j.CreatedAt,
		UpdatedAt:           j.UpdatedAt,
	}
}

func NewJobListResponse(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}

func NewApplicantListResponse(applicants []job.Applicant) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(applicants))
	for _, a := range applicants {
		out = append(out, ApplicantResponse{
			ID:       a.UserID,
			FullName: a.FullName,
			Email:    a.Email,
			CVFile:   a.FilePath,
			Status:   string(a.Status),
		})
	}
	return out
}

func NewAppliedJobListResponse(rows []ucuser.AppliedJob) []AppliedJobResponse {
	out := make([]AppliedJobResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, AppliedJobResponse{
			JobID:   r.JobID,
			Title:   r.Title,
			Company: NewCompanySummaryResponse(r.Company),
			Salary:  r.Salary,
			Status:  string(r.Status),
		})
	}
	return out
}
