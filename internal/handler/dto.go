package handler

import (
	"strings"

	"github.com/msomdec/user-accounts/internal/domain"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

func (r *createUserRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// loginRequest carries no validation tags: missing fields fall through to
// the account checks so the account state is reported first.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type recoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *recoverPasswordRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// passwordRequest is shared by recovery completion, password verification
// and password update.
type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Address string `json:"address" validate:"max=255"`
	Phone   string `json:"phone" validate:"max=40"`
}

func (r *updateUserRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.Phone = strings.TrimSpace(r.Phone)
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	BearerToken string `json:"bearer_token"`
}

// ProfileDTO is the authenticated identity returned by the dashboard.
type ProfileDTO struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func toProfileDTO(p domain.Profile) ProfileDTO {
	return ProfileDTO{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		Address: p.Address,
		Phone:   p.Phone,
	}
}

// InformationDTO is the public profile returned by /user/information/{id}.
type InformationDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func toInformationDTO(p domain.Profile) InformationDTO {
	return InformationDTO{
		Name:    p.Name,
		Email:   p.Email,
		Address: p.Address,
		Phone:   p.Phone,
	}
}
