package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/policy"
	"github.com/anandps/schooldesk/internal/app/repositories"
	"github.com/anandps/schooldesk/internal/pkg/auth"
)

// StudentService defines the interface for student profile operations
type StudentService interface {
	ListStudents(ctx context.Context, caller models.Caller) ([]dto.StudentResponse, error)
	GetStudent(ctx context.Context, caller models.Caller, id int64) (*dto.StudentResponse, error)
	CreateStudent(ctx context.Context, caller models.Caller, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	UpdateStudent(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error)
	DeleteStudent(ctx context.Context, caller models.Caller, id int64) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	userRepo    repositories.IUserRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	userRepo repositories.IUserRepository,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// ListStudents returns every student profile. Staff roles only.
func (s *studentServiceImpl) ListStudents(ctx context.Context, caller models.Caller) ([]dto.StudentResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceStudents, policy.OpList); err != nil {
		return nil, err
	}

	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	out := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		out = append(out, dto.NewStudentResponse(student))
	}
	return out, nil
}

// GetStudent returns a single student profile by id. Staff roles only.
func (s *studentServiceImpl) GetStudent(ctx context.Context, caller models.Caller, id int64) (*dto.StudentResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceStudents, policy.OpRead); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// CreateStudent creates a student profile, optionally together with a new
// student-role identity for the profile to log in with.
func (s *studentServiceImpl) CreateStudent(ctx context.Context, caller models.Caller, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceStudents, policy.OpCreate); err != nil {
		return nil, err
	}

	student := &models.Student{
		Name:       req.Name,
		RollNumber: req.RollNumber,
		ClassName:  req.ClassName,
	}

	if req.User != nil {
		hashed, err := auth.HashPassword(req.User.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user := &models.User{
			Username: req.User.Username,
			Email:    req.User.Email,
			Password: hashed,
			UserType: models.RoleStudent,
		}
		id, err := s.studentRepo.CreateWithUser(ctx, student, user)
		if err != nil {
			return nil, err
		}
		student.ID = id
	} else {
		id, err := s.studentRepo.Create(ctx, student)
		if err != nil {
			return nil, err
		}
		student.ID = id
	}

	s.logger.Info().Int64("student_id", student.ID).Str("roll_number", student.RollNumber).Msg("Student created")

	created, err := s.studentRepo.GetByID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(created)
	return &resp, nil
}

// UpdateStudent applies a partial update to a student profile
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceStudents, policy.OpUpdate); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.RollNumber != nil {
		student.RollNumber = *req.RollNumber
	}
	if req.ClassName != nil {
		student.ClassName = *req.ClassName
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// PrepareDelete runs the authorization and existence checks for a delete
// and returns the name to show in the confirmation prompt. Prefers the
// linked identity's username, falling back to the profile name.
func (s *studentServiceImpl) PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error) {
	if _, err := policy.Authorize(caller, policy.ResourceStudents, policy.OpDelete); err != nil {
		return "", err
	}

	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if student.UserID != nil {
		if user, err := s.userRepo.GetByID(ctx, *student.UserID); err == nil {
			return user.Username, nil
		}
	}
	return student.Name, nil
}

// DeleteStudent removes a student profile. The linked identity and every
// library and fee record of the profile are removed in the same
// transaction.
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, caller models.Caller, id int64) error {
	if _, err := policy.Authorize(caller, policy.ResourceStudents, policy.OpDelete); err != nil {
		return err
	}

	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.studentRepo.DeleteCascade(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("student_id", id).Msg("Student deleted")
	return nil
}
