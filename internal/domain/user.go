package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,min=2"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserRole string

const (
	RoleViewer  UserRole = "viewer"
	RoleStaff   UserRole = "staff"
	RoleManager UserRole = "manager"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleViewer, RoleStaff, RoleManager:
		return true
	default:
		return false
	}
}

func (r UserRole) level() int {
	switch r {
	case RoleManager:
		return 3
	case RoleStaff:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// HasRole reports whether the user's role is at least requiredRole.
func (u *User) HasRole(requiredRole string) bool {
	return UserRole(u.Role).level() >= UserRole(requiredRole).level() && UserRole(requiredRole).IsValid()
}
