package postgres

import (
	"context"
	"fmt"

	"hirehub/internal/database"
	"hirehub/internal/domain/user"

	"github.com/google/uuid"
)

const selectUserSQL = `SELECT id, full_name, email, password_hash, phone, address, bio, avatar, skills, created_at, updated_at FROM users`

type UserRepository struct {
	db database.DB
}

func NewUserRepository(db database.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u user.User) error {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, full_name, email, password_hash, phone, address, bio, avatar, skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.FullName, u.Email, u.PasswordHash, u.Phone, u.Address, u.Bio, u.Avatar, skills,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(r.db.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email))
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, p user.Patch) (user.User, error) {
	var a database.Assignments
	if p.FullName != nil {
		a.Add("full_name", *p.FullName)
	}
	if p.Email != nil {
		a.Add("email", *p.Email)
	}
	if p.Phone != nil {
		a.Add("phone", *p.Phone)
	}
	if p.Address != nil {
		a.Add("address", *p.Address)
	}
	if p.Bio != nil {
		a.Add("bio", *p.Bio)
	}
	if p.Avatar != nil {
		a.Add("avatar", *p.Avatar)
	}
	if p.Skills != nil {
		skills := *p.Skills
		if skills == nil {
			skills = []string{}
		}
		a.Add("skills", skills)
	}
	if p.PasswordHash != nil {
		a.Add("password_hash", *p.PasswordHash)
	}
	if a.Len() == 0 {
		return r.GetByID(ctx, id)
	}

	set, args := a.SQL(id)
	n, err := r.db.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s, updated_at = now() WHERE id = $%d`, set, len(args)),
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	if err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Phone, &u.Address,
		&u.Bio, &u.Avatar, &u.Skills, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
