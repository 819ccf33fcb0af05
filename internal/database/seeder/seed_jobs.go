package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hirehub/internal/database"
)

type JobsSeeder struct {
	Items []JobFixture
}

func (JobsSeeder) Name() string { return "jobs" }

func (s JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id", "company_id", "title", "position", "experience", "vacancies", "employment_type",
		"gender_requirement", "salary", "location", "description", "application_deadline", "skills",
	); err != nil {
		return err
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range s.Items {
			companyID, err := findCompanyID(ctx, tx, strings.ToLower(it.CompanyEmail))
			if err != nil {
				return err
			}
			var deadline *time.Time
			if it.DeadlineDays > 0 {
				d := now.AddDate(0, 0, it.DeadlineDays)
				deadline = &d
			}
			skills := it.Skills
			if skills == nil {
				skills = []string{}
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO jobs (
					id, company_id, title, position, experience, vacancies, employment_type,
					gender_requirement, salary, location, description, application_deadline, skills
				 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
				 ON CONFLICT (id) DO NOTHING`,
				seedID("job", it.Key), companyID, it.Title, it.Position, it.Experience, it.Vacancies,
				it.EmploymentType, it.GenderRequirement, it.Salary, it.Location, it.Description, deadline, skills,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

func findCompanyID(ctx context.Context, tx database.Tx, email string) (string, error) {
	var id string
	if err := tx.QueryRow(ctx, `SELECT id::text FROM companies WHERE email = $1`, email).Scan(&id); err != nil {
		return "", fmt.Errorf("find company %s: %w", email, err)
	}
	return id, nil
}
