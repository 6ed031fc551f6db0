package domain

import "time"

// UserRole represents the access level of an account.
type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
	RoleAdmin   UserRole = "admin"
)

// ValidRole reports whether the role is one of the known values.
func ValidRole(r UserRole) bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User is the stored representation of an account, including the hashed
// credential. Handlers must never serialize this type directly.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         UserRole
	FirstName    string
	LastName     string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the client-facing view of a user.
type UserProfile struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
}

// Profile returns the sanitized view, omitting the credential hash.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// CanManageRecords reports whether the user may create or modify records.
func (u *User) CanManageRecords() bool {
	return u.Role == RoleDoctor || u.Role == RoleAdmin
}
