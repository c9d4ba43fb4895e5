package models

import "time"

// UserRole is the closed set of roles a user can hold.
type UserRole string

const (
	RolePlayer     UserRole = "jugador"
	RoleClub       UserRole = "club"
	RoleSuperadmin UserRole = "superadmin"
)

// ParseUserRole validates s against the known roles.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RolePlayer, RoleClub, RoleSuperadmin:
		return UserRole(s), true
	default:
		return "", false
	}
}

// CanOrganize reports whether the role may create tournaments and generate schedules.
func (r UserRole) CanOrganize() bool {
	switch r {
	case RoleClub, RoleSuperadmin:
		return true
	case RolePlayer:
		return false
	default:
		return false
	}
}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	City         *string   `json:"city,omitempty"`
	Level        *float64  `json:"level,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	UserID int
	Role   UserRole
}
