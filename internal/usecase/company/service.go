package company

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hirehub/internal/domain/company"
	"hirehub/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrCompanyNotFound = errors.New("company not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
)

type UpdateProfileInput struct {
	CompanyName *string
	CompanyLogo *string
	Description *string
	Website     *string
	Location    *string
	Password    *string
}

// JobListInvalidator drops cached job lists, which embed each job's company summary.
type JobListInvalidator interface {
	InvalidateListCache(ctx context.Context)
}

type Service struct {
	companies company.Repository
	jobLists  JobListInvalidator
}

// NewService builds the profile service. jobLists may be nil when no job list cache exists.
func NewService(companies company.Repository, jobLists JobListInvalidator) *Service {
	return &Service{companies: companies, jobLists: jobLists}
}

func (s *Service) GetProfile(ctx context.Context, companyID uuid.UUID) (company.Company, error) {
	c, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return company.Company{}, mapRepoError(err)
	}
	return sanitizeCompany(c), nil
}

func (s *Service) UpdateProfile(ctx context.Context, companyID uuid.UUID, in UpdateProfileInput) (company.Company, error) {
	p := company.Patch{
		CompanyName: trimmed(in.CompanyName),
		CompanyLogo: trimmed(in.CompanyLogo),
		Description: in.Description,
		Website:     trimmed(in.Website),
		Location:    trimmed(in.Location),
	}
	if p.CompanyName != nil && *p.CompanyName == "" {
		return company.Company{}, ErrInvalidInput
	}

	if in.Password != nil {
		hash, err := password.Hash(*in.Password)
		if err != nil {
			if errors.Is(err, password.ErrTooShort) {
				return company.Company{}, ErrInvalidInput
			}
			return company.Company{}, fmt.Errorf("%w: %w", ErrInternal, err)
		}
		p.PasswordHash = &hash
	}

	if p.IsEmpty() {
		return company.Company{}, ErrInvalidInput
	}

	updated, err := s.companies.Update(ctx, companyID, p)
	if err != nil {
		return company.Company{}, mapRepoError(err)
	}
	if s.jobLists != nil && (p.CompanyName != nil || p.CompanyLogo != nil) {
		s.jobLists.InvalidateListCache(ctx)
	}
	return sanitizeCompany(updated), nil
}

func mapRepoError(err error) error {
	if errors.Is(err, company.ErrNotFound) {
		return ErrCompanyNotFound
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func sanitizeCompany(c company.Company) company.Company {
	c.PasswordHash = ""
	return c
}
