package dto

import (
	"time"

	"hirehub/internal/domain/company"
	"hirehub/internal/domain/user"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Bio       string    `json:"bio"`
	Avatar    string    `json:"avatar"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CompanyProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
	CompanyLogo string    `json:"companyLogo"`
	Description string    `json:"description"`
	Website     string    `json:"website"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewUserProfileResponse(u user.User) UserProfileResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserProfileResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		Skills:    skills,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewCompanyProfileResponse(c company.Company) CompanyProfileResponse {
	return CompanyProfileResponse{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Email:       c.Email,
		CompanyLogo: c.CompanyLogo,
		Description: c.Description,
		Website:     c.Website,
		Location:    c.Location,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
