package models

import (
	"time"
)

// Role defines the closed set of user roles. Authorization decisions key on
// this type, never on raw request strings.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOfficeStaff Role = "office_staff"
	RoleLibrarian   Role = "librarian"
	RoleStudent     Role = "student"
)

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOfficeStaff, RoleLibrarian, RoleStudent:
		return true
	}
	return false
}

// User defines the identity model based on the 'users' table
type User struct {
	ID         int64     `json:"id" db:"id" example:"1"`                                   // Unique identifier for the user
	Username   string    `json:"username" db:"username" example:"asha.n"`                  // Unique login name
	Email      string    `json:"email" db:"email" example:"asha@school.example"`           // User's email address
	Password   string    `json:"-" db:"password"`                                          // Hashed password (excluded from JSON)
	UserType   Role      `json:"user_type" db:"user_type" example:"student"`               // User's role
	DateJoined time.Time `json:"date_joined" db:"date_joined" example:"2024-01-01T10:00:00Z"` // Timestamp when the account was created
}

// Caller is the authenticated identity passed explicitly into every
// service call. It is derived from validated JWT claims by the auth
// middleware and never held in process-wide state.
type Caller struct {
	UserID   int64
	Username string
	Role     Role
}
