package postgres

import (
	"context"
	"fmt"

	"hirehub/internal/database"
	"hirehub/internal/domain/company"

	"github.com/google/uuid"
)

const selectCompanySQL = `SELECT id, company_name, email, password_hash, company_logo, description, website, location, created_at, updated_at FROM companies`

type CompanyRepository struct {
	db database.DB
}

func NewCompanyRepository(db database.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

var _ company.Repository = (*CompanyRepository)(nil)

func (r *CompanyRepository) Create(ctx context.Context, c company.Company) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO companies (id, company_name, email, password_hash, company_logo, description, website, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.CompanyName, c.Email, c.PasswordHash, c.CompanyLogo, c.Description, c.Website, c.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return company.ErrEmailTaken
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (company.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, selectCompanySQL+` WHERE id = $1`, id))
}

func (r *CompanyRepository) GetByEmail(ctx context.Context, email string) (company.Company, error) {
	return scanCompany(r.db.QueryRow(ctx, selectCompanySQL+` WHERE email = $1`, email))
}

func (r *CompanyRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CompanyRepository) Update(ctx context.Context, id uuid.UUID, p company.Patch) (company.Company, error) {
	var a database.Assignments
	if p.CompanyName != nil {
		a.Add("company_name", *p.CompanyName)
	}
	if p.CompanyLogo != nil {
		a.Add("company_logo", *p.CompanyLogo)
	}
	if p.Description != nil {
		a.Add("description", *p.Description)
	}
	if p.Website != nil {
		a.Add("website", *p.Website)
	}
	if p.Location != nil {
		a.Add("location", *p.Location)
	}
	if p.PasswordHash != nil {
		a.Add("password_hash", *p.PasswordHash)
	}
	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	set, args := a.SQL(id)
	n, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE companies SET %s, updated_at = now() WHERE id = $%d`, set, len(args)),
		args...,
	)
	if err != nil {
		return company.Company{}, fmt.Errorf("update company: %w", err)
	}
	if n == 0 {
		return company.Company{}, company.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func scanCompany(row database.Row) (company.Company, error) {
	var c company.Company
	if err := row.Scan(
		&c.ID, &c.CompanyName, &c.Email, &c.PasswordHash, &c.CompanyLogo,
		&c.Description, &c.Website, &c.Location, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return company.Company{}, company.ErrNotFound
		}
		return company.Company{}, err
	}
	return c, nil
}
