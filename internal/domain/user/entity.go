package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	Bio          string
	Avatar       string
	Skills       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Patch lists the profile fields a user may change. PasswordHash must already be hashed.
type Patch struct {
	FullName     *string
	Email        *string
	Phone        *string
	Address      *string
	Bio          *string
	Avatar       *string
	Skills       *[]string
	PasswordHash *string
}

func (p Patch) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.Phone == nil && p.Address == nil &&
		p.Bio == nil && p.Avatar == nil && p.Skills == nil && p.PasswordHash == nil
}
