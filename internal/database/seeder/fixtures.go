package seeder

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fixtures is the demo data written by the seeders. Keys feed seedID so reruns hit the same rows.
type Fixtures struct {
	Companies []CompanyFixture `yaml:"companies"`
	Users     []UserFixture    `yaml:"users"`
	Jobs      []JobFixture     `yaml:"jobs"`
}

type CompanyFixture struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Description string `yaml:"description"`
	Website     string `yaml:"website"`
	Location    string `yaml:"location"`
}

type UserFixture struct {
	Key      string   `yaml:"key"`
	FullName string   `yaml:"full_name"`
	Email    string   `yaml:"email"`
	Skills   []string `yaml:"skills"`
}

type JobFixture struct {
	Key               string   `yaml:"key"`
	CompanyEmail      string   `yaml:"company_email"`
	Title             string   `yaml:"title"`
	Position          string   `yaml:"position"`
	Experience        string   `yaml:"experience"`
	Vacancies         int      `yaml:"vacancies"`
	EmploymentType    string   `yaml:"employment_type"`
	GenderRequirement string   `yaml:"gender_requirement"`
	Salary            string   `yaml:"salary"`
	Location          string   `yaml:"location"`
	Description       string   `yaml:"description"`
	DeadlineDays      int      `yaml:"deadline_days"`
	Skills            []string `yaml:"skills"`
}

func DefaultFixtures() Fixtures {
	return Fixtures{
		Companies: []CompanyFixture{
			{Key: "acme", Name: "Acme Digital", Email: "hr@acme.test", Description: "Demo company", Location: "Jakarta", Website: "https://acme.test"},
			{Key: "globex", Name: "Globex Labs", Email: "talent@globex.test", Description: "Demo company", Location: "Bandung", Website: "https://globex.test"},
		},
		Users: []UserFixture{
			{Key: "ana", FullName: "Ana Putri", Email: "ana@example.com", Skills: []string{"Go", "PostgreSQL"}},
			{Key: "budi", FullName: "Budi Santoso", Email: "budi@example.com", Skills: []string{"React", "TypeScript"}},
		},
		Jobs: []JobFixture{
			{
				Key: "acme-backend", CompanyEmail: "hr@acme.test",
				Title: "Backend Engineer (Go)", Position: "Backend Engineer", Experience: "2+ years",
				EmploymentType: "Full-time", GenderRequirement: "Any", DeadlineDays: 30, Salary: "IDR 15-25M", Location: "Jakarta", Vacancies: 2,
				Description: "Build and maintain Go services, REST APIs and PostgreSQL-backed systems.",
				Skills:      []string{"Go", "PostgreSQL", "Redis"},
			},
			{
				Key: "acme-frontend", CompanyEmail: "hr@acme.test",
				Title: "Frontend Engineer", Position: "Frontend Engineer", Experience: "1+ years",
				EmploymentType: "Full-time", GenderRequirement: "Any", DeadlineDays: 30, Salary: "IDR 12-20M", Location: "Remote", Vacancies: 1,
				Description: "Ship the candidate-facing web app in React and TypeScript.",
				Skills:      []string{"React", "TypeScript"},
			},
			{
				Key: "globex-data", CompanyEmail: "talent@globex.test",
				Title: "Data Engineer Intern", Position: "Data Engineer", Experience: "Fresh graduate",
				EmploymentType: "Internship", GenderRequirement: "Any", DeadlineDays: 30, Salary: "IDR 5M", Location: "Bandung", Vacancies: 3,
				Description: "Help build batch pipelines and reporting dashboards.",
				Skills:      []string{"SQL", "Python"},
			},
		},
	}
}

// LoadFixtures reads a YAML fixture file. ${VAR} references are expanded from the environment.
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func (f Fixtures) validate() error {
	companies := make(map[string]struct{}, len(f.Companies))
	for i, c := range f.Companies {
		if strings.TrimSpace(c.Key) == "" || strings.TrimSpace(c.Email) == "" {
			return fmt.Errorf("companies[%d]: key and email are required", i)
		}
		companies[strings.ToLower(c.Email)] = struct{}{}
	}
	for i, u := range f.Users {
		if strings.TrimSpace(u.Key) == "" || strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("users[%d]: key and email are required", i)
		}
	}
	for i, j := range f.Jobs {
		if strings.TrimSpace(j.Key) == "" || strings.TrimSpace(j.Title) == "" {
			return fmt.Errorf("jobs[%d]: key and title are required", i)
		}
		if _, ok := companies[strings.ToLower(j.CompanyEmail)]; !ok {
			return fmt.Errorf("jobs[%d]: unknown company_email %q", i, j.CompanyEmail)
		}
	}
	return nil
}
