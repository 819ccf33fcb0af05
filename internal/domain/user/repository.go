package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Create and by an Update that changes Email.
	ErrEmailTaken = errors.New("email already in use")
)

// Repository stores job seekers. Emails are compared lowercased, and every
// lookup returns ErrNotFound for an unknown id or email.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update applies only the non-nil Patch fields and returns the stored row.
	Update(ctx context.Context, id uuid.UUID, p Patch) (User, error)
}
