package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Picture   string           `json:"picture,omitempty"`
	Role      Role             `json:"role"`
	Addresses []map[string]any `json:"addresses"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GoogleAuthRequest carries the OAuth authorization code handed back by
// the consent screen.
type GoogleAuthRequest struct {
	Code        string `json:"code" validate:"required"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type AuthResponse struct {
	User         *User     `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UpdateProfileRequest struct {
	Name      *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Picture   *string           `json:"picture,omitempty" validate:"omitempty,url"`
	Addresses *[]map[string]any `json:"addresses,omitempty"`
}
