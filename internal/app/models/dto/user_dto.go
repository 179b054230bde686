package dto

import (
	"time"

	"github.com/anandps/schooldesk/internal/app/models"
)

// CreateUserRequest represents identity creation data. The embedded
// student payload is honored only when user_type is student.
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,max=150"`
	Email    string          `json:"email" binding:"omitempty,email"`
	Password string          `json:"password" binding:"required,min=8"`
	UserType models.Role     `json:"user_type" binding:"required,oneof=admin office_staff librarian student"`
	Student  *StudentPayload `json:"student,omitempty" binding:"omitempty"`
}

// UpdateUserRequest represents a partial identity update; nil fields are
// left untouched.
type UpdateUserRequest struct {
	Username *string      `json:"username,omitempty" binding:"omitempty,max=150"`
	Email    *string      `json:"email,omitempty" binding:"omitempty,email"`
	Password *string      `json:"password,omitempty" binding:"omitempty,min=8"`
	UserType *models.Role `json:"user_type,omitempty" binding:"omitempty,oneof=admin office_staff librarian student"`
}

// UserResponse represents identity data returned to callers. The password
// credential is never part of it.
type UserResponse struct {
	ID         int64            `json:"id"`
	Username   string           `json:"username"`
	Email      string           `json:"email"`
	UserType   models.Role      `json:"user_type"`
	DateJoined time.Time        `json:"date_joined"`
	Student    *StudentResponse `json:"student,omitempty"`
}

// UserListResponse wraps the identity collection
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// NewUserResponse maps an identity to its response shape
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		UserType:   user.UserType,
		DateJoined: user.DateJoined,
	}
}
