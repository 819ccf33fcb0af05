package job

import (
	"context"
	"sync"
	"testing"

	"hirehub/internal/domain/company"
	"hirehub/internal/domain/job"
	companyuc "hirehub/internal/usecase/company"

	"github.com/google/uuid"
)

type companyStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]company.Company
}

func (s *companyStore) Create(_ context.Context, c company.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = c
	return nil
}

func (s *companyStore) GetByID(_ context.Context, id uuid.UUID) (company.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	return c, nil
}

func (s *companyStore) GetByEmail(_ context.Context, email string) (company.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.byID {
		if c.Email == email {
			return c, nil
		}
	}
	return company.Company{}, company.ErrNotFound
}

func (s *companyStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *companyStore) Update(_ context.Context, id uuid.UUID, p company.Patch) (company.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if !ok {
		return company.Company{}, company.ErrNotFound
	}
	if p.CompanyName != nil {
		c.CompanyName = *p.CompanyName
	}
	if p.CompanyLogo != nil {
		c.CompanyLogo = *p.CompanyLogo
	}
	s.byID[id] = c
	return c, nil
}

// joinedJobRepo attaches the current company summary at read time, as the Postgres repository does.
type joinedJobRepo struct {
	*memJobRepo
	companies *companyStore
}

func (r joinedJobRepo) attach(j job.Job) job.Job {
	if c, err := r.companies.GetByID(context.Background(), j.CompanyID); err == nil {
		j.Company = &job.CompanySummary{ID: c.ID, CompanyName: c.CompanyName, Email: c.Email, CompanyLogo: c.CompanyLogo}
	}
	return j
}

func (r joinedJobRepo) List(ctx context.Context) ([]job.Job, error) {
	jobs, err := r.memJobRepo.List(ctx)
	for i := range jobs {
		jobs[i] = r.attach(jobs[i])
	}
	return jobs, err
}

func (r joinedJobRepo) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	j, err := r.memJobRepo.GetByID(ctx, id)
	if err != nil {
		return j, err
	}
	return r.attach(j), nil
}

func TestListJobs_CompanyRenameIsVisible(t *testing.T) {
	ctx := context.Background()
	companyID, jobID := uuid.New(), uuid.New()
	companies := &companyStore{byID: map[uuid.UUID]company.Company{
		companyID: {ID: companyID, CompanyName: "Acme", Email: "hr@acme.test"},
	}}
	repo := joinedJobRepo{memJobRepo: newMemJobRepo(), companies: companies}
	repo.put(job.Job{ID: jobID, CompanyID: companyID, Title: "Backend Engineer", Applications: []job.Application{}})

	jobs := NewService(repo, companies, newFakeFiles(), newFakeCache(), nil, nil)
	profiles := companyuc.NewService(companies, jobs)

	if _, err := jobs.ListJobs(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	name := "Acme Renamed"
	if _, err := profiles.UpdateProfile(ctx, companyID, companyuc.UpdateProfileInput{CompanyName: &name}); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	listed, err := jobs.ListJobs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	single, err := jobs.GetJob(ctx, jobID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(listed) != 1 || listed[0].Company == nil || listed[0].Company.CompanyName != name {
		t.Fatalf("list served stale company: %+v", listed)
	}
	if single.Company.CompanyName != listed[0].Company.CompanyName {
		t.Fatalf("list and detail disagree: %q vs %q", listed[0].Company.CompanyName, single.Company.CompanyName)
	}
}
