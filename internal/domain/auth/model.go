// Package auth provides user accounts and JWT-based authentication for the
// dashboard API.
package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"frostdesk/internal/core/apperror"
	"frostdesk/internal/core/entity"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is a dashboard account.
type User struct {
	entity.BaseEntity

	Email string `db:"email" json:"email"`

	// PasswordHash is the bcrypt hash, never serialized
	PasswordHash string `db:"password_hash" json:"-"`

	Name string `db:"name" json:"name"`
	Role Role   `db:"role" json:"role"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewUser creates an active user with a hashed password.
func NewUser(email, password, name string, role Role) (*User, error) {
	u := &User{
		BaseEntity: entity.NewBaseEntity(),
		Email:      email,
		Name:       name,
		Role:       role,
		IsActive:   true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate implements entity.Validatable interface.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").
			WithDetail("field", "email")
	}
	if u.PasswordHash == "" {
		return apperror.NewValidation("password is required").
			WithDetail("field", "password")
	}
	if u.Role != RoleAdmin && u.Role != RoleStaff {
		return apperror.NewValidation("unknown role").
			WithDetail("value", string(u.Role))
	}
	return nil
}

// SetPassword hashes and stores a new password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
