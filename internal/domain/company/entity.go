package company

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID           uuid.UUID
	CompanyName  string
	Email        string
	PasswordHash string
	CompanyLogo  string
	Description  string
	Website      string
	Location     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Patch struct {
	CompanyName  *string
	CompanyLogo  *string
	Description  *string
	Website      *string
	Location     *string
	PasswordHash *string
}

func (p Patch) IsEmpty() bool {
	return p.CompanyName == nil && p.CompanyLogo == nil && p.Description == nil &&
		p.Website == nil && p.Location == nil && p.PasswordHash == nil
}
