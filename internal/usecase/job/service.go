package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"hirehub/internal/domain/company"
	"hirehub/internal/domain/job"
	"hirehub/internal/infrastructure/storage"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("applicant not found")
	ErrAlreadyApplied      = errors.New("already applied")
	ErrCompanyNotFound     = errors.New("company not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpload              = errors.New("upload failed")
	ErrEmptyCV             = errors.New("empty cv file")
	ErrInternal            = errors.New("internal error")
)

const (
	listCacheKey     = "jobs:list:all"
	listCachePattern = "jobs:list:*"
	// listGenKey counts list invalidations. It sits outside listCachePattern so deleting
	// cached lists never resets it.
	listGenKey = "jobs:list-gen"
)

const (
	EventApplicationReceived      = "application_received"
	EventApplicationStatusChanged = "application_status_changed"
	EventJobsUpdated              = "jobs_updated"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Counter(ctx context.Context, key string) (int64, error)
	Incr(ctx context.Context, key string) error
}

// Notifier pushes events to connected principals. Delivery is best effort.
type Notifier interface {
	Notify(recipient uuid.UUID, eventType string, payload any)
	Broadcast(eventType string, payload any)
}

type Input struct {
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
}

type ApplyInput struct {
	FileName string
	File     io.Reader
}

type Service struct {
	jobs      job.Repository
	companies company.Repository
	files     storage.FileStore
	cache     Cache
	notifier  Notifier
	logger    *log.Logger
}

func NewService(jobs job.Repository, companies company.Repository, files storage.FileStore, cache Cache, notifier Notifier, logger *log.Logger) *Service {
	return &Service{
		jobs:      jobs,
		companies: companies,
		files:     files,
		cache:     cache,
		notifier:  notifier,
		logger:    logger,
	}
}

func (s *Service) ListJobs(ctx context.Context) ([]job.Job, error) {
	if s.cache != nil {
		var cached []job.Job
		hit, err := s.cache.GetJSON(ctx, listCacheKey, &cached)
		if err == nil && hit {
			s.logf("[Jobs] Cache HIT: %s", listCacheKey)
			return cached, nil
		}
		s.logf("[Jobs] Cache MISS: %s", listCacheKey)
	}

	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		g, err := s.cache.Counter(ctx, listGenKey)
		gen, cacheable = g, err == nil
	}

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, internal(err)
	}

	if cacheable {
		s.fillListCache(ctx, gen, jobs)
	}
	return jobs, nil
}

// fillListCache stores a snapshot read under generation gen. A mutation bumps the generation
// before deleting cached lists, so a snapshot that lost the race is skipped or deleted again.
func (s *Service) fillListCache(ctx context.Context, gen int64, jobs []job.Job) {
	if now, err := s.cache.Counter(ctx, listGenKey); err != nil || now != gen {
		s.logf("[Jobs] Cache SET skipped, list changed during read: %s", listCacheKey)
		return
	}
	if err := s.cache.SetJSON(ctx, listCacheKey, jobs, 0); err != nil {
		return
	}
	if now, err := s.cache.Counter(ctx, listGenKey); err != nil || now != gen {
		s.logf("[Jobs] Cache SET raced with a change, dropping: %s", listCacheKey)
		s.deleteCachedLists(ctx)
		return
	}
	s.logf("[Jobs] Cache SET: %s", listCacheKey)
}

func (s *Service) GetJob(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return job.Job{}, mapRepoError(err)
	}
	return j, nil
}

func (s *Service) CreateJob(ctx context.Context, companyID uuid.UUID, in Input) (job.Job, error) {
	if companyID == uuid.Nil {
		return job.Job{}, ErrInvalidInput
	}

	created, err := s.jobs.Create(ctx, job.Job{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		Title:               strings.TrimSpace(in.Title),
		Position:            strings.TrimSpace(in.Position),
		Experience:          strings.TrimSpace(in.Experience),
		Vacancies:           in.Vacancies,
		EmploymentType:      strings.TrimSpace(in.EmploymentType),
		GenderRequirement:   strings.TrimSpace(in.GenderRequirement),
		Salary:              strings.TrimSpace(in.Salary),
		Location:            strings.TrimSpace(in.Location),
		Description:         in.Description,
		ApplicationDeadline: in.ApplicationDeadline,
		Skills:              normalizeSkills(in.Skills),
	})
	if err != nil {
		return job.Job{}, mapRepoError(err)
	}

	s.logf("[Jobs] Created: job_id=%s company_id=%s", created.ID, companyID)
	s.jobsChanged(ctx, created.ID, "created")
	return created, nil
}

// UpdateJob applies p to any job; callers holding the company role are not checked for ownership.
func (s *Service) UpdateJob(ctx context.Context, id uuid.UUID, p job.Patch) (job.Job, error) {
	if p.IsEmpty() {
		return job.Job{}, ErrInvalidInput
	}
	if p.Skills != nil {
		skills := normalizeSkills(*p.Skills)
		p.Skills = &skills
	}

	updated, err := s.jobs.Update(ctx, id, p)
	if err != nil {
		return job.Job{}, mapRepoError(err)
	}

	s.jobsChanged(ctx, id, "updated")
	return updated, nil
}

func (s *Service) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.logf("[Jobs] Deleted: job_id=%s", id)
	s.jobsChanged(ctx, id, "deleted")
	return nil
}

func (s *Service) ListApplicants(ctx context.Context, jobID uuid.UUID) ([]job.Applicant, error) {
	applicants, err := s.jobs.ListApplicants(ctx, jobID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return applicants, nil
}

func (s *Service) ListJobsByCompanyEmail(ctx context.Context, email string) ([]job.Job, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrCompanyNotFound
	}

	c, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, internal(err)
	}

	jobs, err := s.jobs.ListByCompany(ctx, c.ID)
	if err != nil {
		return nil, internal(err)
	}
	return jobs, nil
}

// Apply stores the CV and appends an application for userID. The stored file is
// removed again when the application cannot be recorded.
func (s *Service) Apply(ctx context.Context, jobID, userID uuid.UUID, in ApplyInput) error {
	if userID == uuid.Nil || in.File == nil {
		return ErrInvalidInput
	}

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return mapRepoError(err)
	}
	if j.HasApplicant(userID) {
		return ErrAlreadyApplied
	}

	filePath, err := s.files.Save(ctx, in.FileName, in.File)
	if errors.Is(err, storage.ErrEmptyUpload) {
		return ErrEmptyCV
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	err = s.jobs.AddApplication(ctx, jobID, job.Application{
		UserID:   userID,
		FilePath: filePath,
		Status:   job.StatusPending,
	})
	if err != nil {
		s.discardUpload(filePath)
		return mapRepoError(err)
	}

	s.logf("[Jobs] Application received: job_id=%s user_id=%s file=%s", jobID, userID, filePath)
	s.InvalidateListCache(ctx)
	if s.notifier != nil {
		s.notifier.Notify(j.CompanyID, EventApplicationReceived, map[string]any{
			"jobId":  jobID,
			"title":  j.Title,
			"userId": userID,
		})
	}
	return nil
}

func (s *Service) ApproveApplication(ctx context.Context, jobID, userID uuid.UUID) error {
	return s.setApplicationStatus(ctx, jobID, userID, job.StatusApproved)
}

func (s *Service) RejectApplication(ctx context.Context, jobID, userID uuid.UUID) error {
	return s.setApplicationStatus(ctx, jobID, userID, job.StatusRejected)
}

// setApplicationStatus overwrites the status unconditionally; repeating a decision succeeds.
func (s *Service) setApplicationStatus(ctx context.Context, jobID, userID uuid.UUID, status job.Status) error {
	if !status.Valid() {
		return ErrInvalidInput
	}
	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return mapRepoError(err)
	}

	a, ok := j.FindApplication(userID)
	if !ok {
		return ErrApplicationNotFound
	}
	a.Status = status

	if err := s.jobs.UpdateApplicationStatus(ctx, jobID, userID, a.Status); err != nil {
		return mapRepoError(err)
	}

	s.logf("[Jobs] Application %s: job_id=%s user_id=%s", strings.ToLower(string(status)), jobID, userID)
	s.InvalidateListCache(ctx)
	if s.notifier != nil {
		s.notifier.Notify(userID, EventApplicationStatusChanged, map[string]any{
			"jobId":  jobID,
			"title":  j.Title,
			"status": status,
		})
	}
	return nil
}

func (s *Service) jobsChanged(ctx context.Context, jobID uuid.UUID, action string) {
	s.InvalidateListCache(ctx)
	if s.notifier != nil {
		s.notifier.Broadcast(EventJobsUpdated, map[string]any{
			"jobId":  jobID,
			"action": action,
		})
	}
}

// InvalidateListCache drops cached job lists. Call it after any committed change that
// shows up in a list entry, including company profile fields.
func (s *Service) InvalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, listGenKey); err != nil {
		s.logf("[Jobs] Cache generation bump failed: key=%s err=%v", listGenKey, err)
	}
	s.deleteCachedLists(ctx)
}

func (s *Service) deleteCachedLists(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, listCachePattern); err != nil {
		s.logf("[Jobs] Cache invalidation failed: pattern=%s err=%v", listCachePattern, err)
	}
}

func (s *Service) discardUpload(filePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.files.Remove(ctx, filePath); err != nil {
		s.logf("[Jobs] Orphaned upload: file=%s err=%v", filePath, err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, job.ErrNotFound):
		return ErrJobNotFound
	case errors.Is(err, job.ErrApplicationNotFound):
		return ErrApplicationNotFound
	case errors.Is(err, job.ErrDuplicateApplication):
		return ErrAlreadyApplied
	default:
		return internal(err)
	}
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
