package handler

import (
	"context"
	"errors"
	"time"

	"hirehub/internal/delivery/http/dto"
	"hirehub/internal/delivery/http/middleware"
	"hirehub/internal/domain/job"
	"hirehub/internal/pkg/jwt"
	"hirehub/internal/pkg/response"
	jobuc "hirehub/internal/usecase/job"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	MessageJobNotFound         = "Job not found"
	MessageJobDeleted          = "Job deleted"
	MessageApplied             = "Applied successfully"
	MessageAlreadyApplied      = "You have already applied for this job"
	MessageApplicantNotFound   = "Applicant not found"
	MessageApplicationApproved = "Application approved"
	MessageApplicationRejected = "Application rejected"
	MessageCompanyNotFound     = "Company not found"
	MessageUploadFailed        = "Error uploading file"
	MessageCVRequired          = "CV file is required"
)

type JobUsecase interface {
	ListJobs(ctx context.Context) ([]job.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (job.Job, error)
	CreateJob(ctx context.Context, companyID uuid.UUID, in jobuc.Input) (job.Job, error)
	UpdateJob(ctx context.Context, id uuid.UUID, p job.Patch) (job.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
	ListApplicants(ctx context.Context, jobID uuid.UUID) ([]job.Applicant, error)
	ListJobsByCompanyEmail(ctx context.Context, email string) ([]job.Job, error)
	Apply(ctx context.Context, jobID, userID uuid.UUID, in jobuc.ApplyInput) error
	ApproveApplication(ctx context.Context, jobID, userID uuid.UUID) error
	RejectApplication(ctx context.Context, jobID, userID uuid.UUID) error
}

type JobsHandler struct {
	uc   JobUsecase
	auth fiber.Handler
}

type createJobRequest struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Position            string     `json:"position" validate:"max=200"`
	Experience          string     `json:"experience" validate:"max=100"`
	Vacancies           int        `json:"vacancies" validate:"gte=0"`
	EmploymentType      string     `json:"employmentType" validate:"max=50"`
	GenderRequirement   string     `json:"genderRequirement" validate:"max=50"`
	Salary              string     `json:"salary" validate:"max=100"`
	Location            string     `json:"location" validate:"max=200"`
	Description         string     `json:"description"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	Skills              []string   `json:"skills" validate:"omitempty,dive,max=60"`
}

// updateJobRequest lists every field a company may change; anything else in the body is ignored.
type updateJobRequest struct {
	Title               *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Position            *string    `json:"position" validate:"omitempty,max=200"`
	Experience          *string    `json:"experience" validate:"omitempty,max=100"`
	Vacancies           *int       `json:"vacancies" validate:"omitempty,gte=0"`
	EmploymentType      *string    `json:"employmentType" validate:"omitempty,max=50"`
	GenderRequirement   *string    `json:"genderRequirement" validate:"omitempty,max=50"`
	Salary              *string    `json:"salary" validate:"omitempty,max=100"`
	Location            *string    `json:"location" validate:"omitempty,max=200"`
	Description         *string    `json:"description"`
	ApplicationDeadline *time.Time `json:"applicationDeadline"`
	Skills              *[]string  `json:"skills" validate:"omitempty,dive,max=60"`
}

func NewJobsHandler(uc JobUsecase, auth fiber.Handler) *JobsHandler {
	return &JobsHandler{uc: uc, auth: auth}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	company := middleware.RequireRole(jwt.RoleCompany)
	applicant := middleware.RequireRole(jwt.RoleUser)

	r.Get("/", h.List)
	r.Get("/my-job/:email", h.auth, company, h.ListByCompanyEmail)
	r.Get("/:id", h.Get)
	r.Post("/", h.auth, company, h.Create)
	r.Put("/:id", h.auth, company, h.Update)
	r.Delete("/:id", h.auth, company, h.Delete)
	r.Post("/:id/apply", h.auth, applicant, h.Apply)
	r.Get("/:id/applicants", h.auth, company, h.ListApplicants)
	r.Post("/:jobId/applicants/:userId/approve", h.auth, company, h.Approve)
	r.Post("/:jobId/applicants/:userId/reject", h.auth, company, h.Reject)
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.Context())
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewJobListResponse(jobs))
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", MessageJobNotFound)
	if err != nil {
		return err
	}

	j, err := h.uc.GetJob(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	companyID, err := principalID(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.CreateJob(c.Context(), companyID, jobuc.Input{
		Title:               req.Title,
		Position:            req.Position,
		Experience:          req.Experience,
		Vacancies:           req.Vacancies,
		EmploymentType:      req.EmploymentType,
		GenderRequirement:   req.GenderRequirement,
		Salary:              req.Salary,
		Location:            req.Location,
		Description:         req.Description,
		ApplicationDeadline: req.ApplicationDeadline,
		Skills:              req.Skills,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusCreated, dto.NewJobResponse(j))
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", MessageJobNotFound)
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	j, err := h.uc.UpdateJob(c.Context(), id, job.Patch{
		Title:               req.Title,
		Position:            req.Position,
		Experience:          req.Experience,
		Vacancies:           req.Vacancies,
		EmploymentType:      req.EmploymentType,
		GenderRequirement:   req.GenderRequirement,
		Salary:              req.Salary,
		Location:            req.Location,
		Description:         req.Description,
		ApplicationDeadline: req.ApplicationDeadline,
		Skills:              req.Skills,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewJobResponse(j))
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", MessageJobNotFound)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteJob(c.Context(), id); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, MessageJobDeleted)
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	userID, err := principalID(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id", MessageJobNotFound)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("cv")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, MessageCVRequired, err)
	}
	if fh.Size == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, MessageCVRequired, jobuc.ErrEmptyCV)
	}
	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, MessageUploadFailed, err)
	}
	defer f.Close()

	if err := h.uc.Apply(c.Context(), jobID, userID, jobuc.ApplyInput{FileName: fh.Filename, File: f}); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, MessageApplied)
}

func (h *JobsHandler) ListApplicants(c fiber.Ctx) error {
	id, err := uuidParam(c, "id", MessageJobNotFound)
	if err != nil {
		return err
	}

	applicants, err := h.uc.ListApplicants(c.Context(), id)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewApplicantListResponse(applicants))
}

func (h *JobsHandler) ListByCompanyEmail(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobsByCompanyEmail(c.Context(), c.Params("email"))
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.JSON(c, fiber.StatusOK, dto.NewJobListResponse(jobs))
}

func (h *JobsHandler) Approve(c fiber.Ctx) error {
	jobID, userID, err := decisionParams(c)
	if err != nil {
		return err
	}
	if err := h.uc.ApproveApplication(c.Context(), jobID, userID); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, MessageApplicationApproved)
}

func (h *JobsHandler) Reject(c fiber.Ctx) error {
	jobID, userID, err := decisionParams(c)
	if err != nil {
		return err
	}
	if err := h.uc.RejectApplication(c.Context(), jobID, userID); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Message(c, fiber.StatusOK, MessageApplicationRejected)
}

func decisionParams(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	jobID, err := uuidParam(c, "jobId", MessageJobNotFound)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	userID, err := uuidParam(c, "userId", MessageApplicantNotFound)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return jobID, userID, nil
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, jobuc.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessageJobNotFound, err)
	case errors.Is(err, jobuc.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessageApplicantNotFound, err)
	case errors.Is(err, jobuc.ErrCompanyNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, MessageCompanyNotFound, err)
	case errors.Is(err, jobuc.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusBadRequest, MessageAlreadyApplied, err)
	case errors.Is(err, jobuc.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, messageInvalidPayload, err)
	case errors.Is(err, jobuc.ErrEmptyCV):
		return middleware.NewAppError(fiber.StatusBadRequest, MessageCVRequired, err)
	case errors.Is(err, jobuc.ErrUpload):
		return middleware.NewAppError(fiber.StatusInternalServerError, MessageUploadFailed, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
