package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hirehub/internal/database"
	"hirehub/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const selectJobSQL = `SELECT j.id, j.company_id, j.title, j.position, j.experience, j.vacancies,
	j.employment_type, j.gender_requirement, j.salary, j.location, j.description,
	j.application_deadline, j.skills, j.created_at, j.updated_at,
	c.company_name, c.email, c.company_logo
 FROM jobs j
 JOIN companies c ON c.id = j.company_id`

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

var _ job.Repository = (*PostgresJobRepository)(nil)

func (r *PostgresJobRepository) List(ctx context.Context) ([]job.Job, error) {
	return r.queryJobs(ctx, selectJobSQL+` ORDER BY j.created_at DESC, j.id`)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Job, error) {
	jobs, err := r.queryJobs(ctx, selectJobSQL+` WHERE j.id = $1`, id)
	if err != nil {
		return job.Job{}, err
	}
	if len(jobs) == 0 {
		return job.Job{}, job.ErrNotFound
	}
	return jobs[0], nil
}

func (r *PostgresJobRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]job.Job, error) {
	return r.queryJobs(ctx, selectJobSQL+` WHERE j.company_id = $1 ORDER BY j.created_at DESC, j.id`, companyID)
}

func (r *PostgresJobRepository) ListByApplicant(ctx context.Context, userID uuid.UUID) ([]job.Job, error) {
	return r.queryJobs(ctx,
		selectJobSQL+` WHERE EXISTS (
			SELECT 1 FROM job_applications a WHERE a.job_id = j.id AND a.user_id = $1
		 )
		 ORDER BY j.created_at DESC, j.id`,
		userID,
	)
}

func (r *PostgresJobRepository) Create(ctx context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO jobs (
			id, company_id, title, position, experience, vacancies, employment_type,
			gender_requirement, salary, location, description, application_deadline, skills
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		j.ID, j.CompanyID, j.Title, j.Position, j.Experience, j.Vacancies, j.EmploymentType,
		j.GenderRequirement, j.Salary, j.Location, j.Description, j.ApplicationDeadline, skills,
	)
	if err != nil {
		return job.Job{}, fmt.Errorf("insert job: %w", err)
	}

	return r.GetByID(ctx, j.ID)
}

func (r *PostgresJobRepository) Update(ctx context.Context, id uuid.UUID, p job.Patch) (job.Job, error) {
	var a database.Assignments
	if p.Title != nil {
		a.Add("title", *p.Title)
	}
	if p.Position != nil {
		a.Add("position", *p.Position)
	}
	if p.Experience != nil {
		a.Add("experience", *p.Experience)
	}
	if p.Vacancies != nil {
		a.Add("vacancies", *p.Vacancies)
	}
	if p.EmploymentType != nil {
		a.Add("employment_type", *p.EmploymentType)
	}
	if p.GenderRequirement != nil {
		a.Add("gender_requirement", *p.GenderRequirement)
	}
	if p.Salary != nil {
		a.Add("salary", *p.Salary)
	}
	if p.Location != nil {
		a.Add("location", *p.Location)
	}
	if p.Description != nil {
		a.Add("description", *p.Description)
	}
	if p.ApplicationDeadline != nil {
		a.Add("application_deadline", *p.ApplicationDeadline)
	}
	if p.Skills != nil {
		skills := *p.Skills
		if skills == nil {
			skills = []string{}
		}
		a.Add("skills", skills)
	}
	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	set, args := a.SQL(id)
	n, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE jobs SET %s, updated_at = now() WHERE id = $%d`, set, len(args)),
		args...,
	)
	if err != nil {
		return job.Job{}, fmt.Errorf("update job: %w", err)
	}
	if n == 0 {
		return job.Job{}, job.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListApplicants(ctx context.Context, jobID uuid.UUID) ([]job.Applicant, error) {
	exists, err := r.existsByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, job.ErrNotFound
	}

	rows, err := r.db.Query(ctx,
		`SELECT a.user_id, u.full_name, u.email, a.file_path, a.status
		 FROM job_applications a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.job_id = $1
		 ORDER BY a.seq ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Applicant, 0)
	for rows.Next() {
		var (
			a      job.Applicant
			status string
		)
		if err := rows.Scan(&a.UserID, &a.FullName, &a.Email, &a.FilePath, &status); err != nil {
			return nil, err
		}
		a.Status = job.Status(status)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) AddApplication(ctx context.Context, jobID uuid.UUID, a job.Application) error {
	status := a.Status
	if status == "" {
		status = job.StatusPending
	}

	// One statement: the unique (job_id, user_id) constraint decides concurrent applies.
	n, err := r.db.Exec(ctx,
		`INSERT INTO job_applications (job_id, user_id, file_path, status)
		 SELECT $1::uuid, $2::uuid, $3::text, $4::text
		 WHERE EXISTS (SELECT 1 FROM jobs WHERE id = $1::uuid)
		 ON CONFLICT (job_id, user_id) DO NOTHING`,
		jobID, a.UserID, a.FilePath, string(status),
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	if n > 0 {
		return nil
	}

	exists, err := r.existsByID(ctx, jobID)
	if err != nil {
		return err
	}
	if !exists {
		return job.ErrNotFound
	}
	return job.ErrDuplicateApplication
}

func (r *PostgresJobRepository) UpdateApplicationStatus(ctx context.Context, jobID, userID uuid.UUID, status job.Status) error {
	n, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $1, updated_at = now() WHERE job_id = $2 AND user_id = $3`,
		string(status), jobID, userID,
	)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if n == 0 {
		return job.ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresJobRepository) existsByID(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM jobs WHERE id = $1)`, jobID)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresJobRepository) queryJobs(ctx context.Context, query string, args ...any) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		var (
			j job.Job
			c job.CompanySummary
		)
		if err := rows.Scan(
			&j.ID, &j.CompanyID, &j.Title, &j.Position, &j.Experience, &j.Vacancies,
			&j.EmploymentType, &j.GenderRequirement, &j.Salary, &j.Location, &j.Description,
			&j.ApplicationDeadline, &j.Skills, &j.CreatedAt, &j.UpdatedAt,
			&c.CompanyName, &c.Email, &c.CompanyLogo,
		); err != nil {
			return nil, err
		}
		c.ID = j.CompanyID
		j.Company = &c
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(out))
	for _, j := range out {
		ids = append(ids, j.ID)
	}
	apps, err := r.applicationsByJobIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Applications = apps[out[i].ID]
		if out[i].Applications == nil {
			out[i].Applications = []job.Application{}
		}
	}
	return out, nil
}

func (r *PostgresJobRepository) applicationsByJobIDs(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID][]job.Application, error) {
	ids := make([]string, 0, len(jobIDs))
	for _, id := range jobIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT job_id, user_id, file_path, status, applied_at
		 FROM job_applications
		 WHERE job_id = ANY($1::uuid[])
		 ORDER BY seq ASC`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]job.Application, len(jobIDs))
	for rows.Next() {
		var (
			jobID  uuid.UUID
			a      job.Application
			status string
		)
		if err := rows.Scan(&jobID, &a.UserID, &a.FilePath, &status, &a.AppliedAt); err != nil {
			return nil, err
		}
		a.Status = job.Status(status)
		out[jobID] = append(out[jobID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
