package domain

import "time"

// Role enumerates account roles embedded in session tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether the role is a known value.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the domain model for registered accounts. Email is stored
// lower-cased and trimmed; the password exists only as a bcrypt hash.
// ResetCode and ResetCodeExpiresAt are set while a password reset is
// pending and cleared together with the password update that consumes them.
type User struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Role               Role
	ResetCode          *string
	ResetCodeExpiresAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
