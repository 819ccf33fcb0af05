package seeder

import (
	"context"
	"strings"

	"hirehub/internal/database"
	"hirehub/internal/pkg/password"
)

type CompaniesSeeder struct {
	Items []CompanyFixture
}

func (CompaniesSeeder) Name() string { return "companies" }

func (s CompaniesSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "companies",
		"id", "company_name", "email", "password_hash", "company_logo", "description", "website", "location",
	); err != nil {
		return err
	}

	hash, err := password.Hash(DemoPassword)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range s.Items {
			if _, err := tx.Exec(ctx,
				`INSERT INTO companies (id, company_name, email, password_hash, description, website, location)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)
				 ON CONFLICT (email) DO NOTHING`,
				seedID("company", it.Key), it.Name, strings.ToLower(it.Email), hash, it.Description, it.Website, it.Location,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

type UsersSeeder struct {
	Items []UserFixture
}

func (UsersSeeder) Name() string { return "users" }

func (s UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users",
		"id", "full_name", "email", "password_hash", "phone", "address", "bio", "avatar", "skills",
	); err != nil {
		return err
	}

	hash, err := password.Hash(DemoPassword)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range s.Items {
			skills := it.Skills
			if skills == nil {
				skills = []string{}
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, full_name, email, password_hash, skills)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (email) DO NOTHING`,
				seedID("user", it.Key), it.FullName, strings.ToLower(it.Email), hash, skills,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
