package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Password policy. bcrypt ignores input beyond MaxPasswordBytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// Role tags an identity with its authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account. The password is only ever kept as a bcrypt hash.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection of a user that is safe to return to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	if u == nil {
		return PublicUser{}
	}
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// NormalizeEmail is the canonical form used for lookups and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword applies the length policy to a plaintext password.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return NewValidationError(FieldError{Field: "password", Message: "Password is required"})
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return NewValidationError(FieldError{Field: "password", Message: "Password must be at least 8 characters long"})
	case len(password) > MaxPasswordBytes:
		return NewValidationError(FieldError{Field: "password", Message: "Password must be at most 72 bytes long"})
	}
	return nil
}
