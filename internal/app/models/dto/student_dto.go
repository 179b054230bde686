package dto

import (
	"github.com/anandps/schooldesk/internal/app/models"
)

// StudentPayload represents the profile fields embedded in an identity
// creation request.
type StudentPayload struct {
	Name       string `json:"name" binding:"required,max=255"`
	RollNumber string `json:"roll_number" binding:"required,max=20"`
	ClassName  string `json:"class_name" binding:"required,max=100"`
}

// NewStudentUser represents the optional identity embedded in a student
// profile creation request. The created identity always gets the student
// role.
type NewStudentUser struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// CreateStudentRequest represents student profile creation data
type CreateStudentRequest struct {
	Name       string          `json:"name" binding:"required,max=255"`
	RollNumber string          `json:"roll_number" binding:"required,max=20"`
	ClassName  string          `json:"class_name" binding:"required,max=100"`
	User       *NewStudentUser `json:"user,omitempty" binding:"omitempty"`
}

// UpdateStudentRequest represents a partial profile update; nil fields are
// left untouched.
type UpdateStudentRequest struct {
	Name       *string `json:"name,omitempty" binding:"omitempty,max=255"`
	RollNumber *string `json:"roll_number,omitempty" binding:"omitempty,max=20"`
	ClassName  *string `json:"class_name,omitempty" binding:"omitempty,max=100"`
}

// StudentResponse represents student profile data returned to callers
type StudentResponse struct {
	ID         int64  `json:"id"`
	UserID     *int64 `json:"user_id,omitempty"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	ClassName  string `json:"class_name"`
}

// NewStudentResponse maps a student profile to its response shape
func NewStudentResponse(student *models.Student) StudentResponse {
	return StudentResponse{
		ID:         student.ID,
		UserID:     student.UserID,
		Name:       student.Name,
		RollNumber: student.RollNumber,
		ClassName:  student.ClassName,
	}
}
