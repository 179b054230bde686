package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/policy"
	"github.com/anandps/schooldesk/internal/app/repositories"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
	"github.com/anandps/schooldesk/internal/pkg/auth"
)

// UserService defines the interface for identity management operations
type UserService interface {
	ListUsers(ctx context.Context, caller models.Caller) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, caller models.Caller, id int64) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, caller models.Caller, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error)
	DeleteUser(ctx context.Context, caller models.Caller, id int64) error
}

// userServiceImpl implements the UserService interface
type userServiceImpl struct {
	userRepo    repositories.IUserRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo repositories.IUserRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) UserService {
	return &userServiceImpl{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// ListUsers returns every identity. Admin only.
func (s *userServiceImpl) ListUsers(ctx context.Context, caller models.Caller) ([]dto.UserResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceUsers, policy.OpList); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		resp := dto.NewUserResponse(user)
		s.attachProfile(ctx, user, &resp)
		out = append(out, resp)
	}
	return out, nil
}

// GetUser returns a single identity by id. Admin only.
func (s *userServiceImpl) GetUser(ctx context.Context, caller models.Caller, id int64) (*dto.UserResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceUsers, policy.OpRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	s.attachProfile(ctx, user, &resp)
	return &resp, nil
}

// CreateUser creates a new identity. When the role is student and a profile
// payload is present, identity and profile are created in one transaction.
func (s *userServiceImpl) CreateUser(ctx context.Context, caller models.Caller, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceUsers, policy.OpCreate); err != nil {
		return nil, err
	}

	if req.Student != nil && req.UserType != models.RoleStudent {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "student profile is only allowed for the student role")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		UserType: req.UserType,
	}

	var profile *models.Student
	if req.Student != nil {
		profile = &models.Student{
			Name:       req.Student.Name,
			RollNumber: req.Student.RollNumber,
			ClassName:  req.Student.ClassName,
		}
		if _, err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
			return nil, err
		}
	} else {
		id, err := s.userRepo.Create(ctx, user)
		if err != nil {
			return nil, err
		}
		user.ID = id
	}

	s.logger.Info().Int64("user_id", user.ID).Str("user_type", string(user.UserType)).Msg("User created")

	created, err := s.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(created)
	if profile != nil {
		p := dto.NewStudentResponse(profile)
		resp.Student = &p
	}
	return &resp, nil
}

// UpdateUser applies a partial update to an identity. Changing the role
// away from student is rejected while a student profile is still linked.
func (s *userServiceImpl) UpdateUser(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if _, err := policy.Authorize(caller, policy.ResourceUsers, policy.OpUpdate); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}
	if req.UserType != nil && *req.UserType != user.UserType {
		if user.UserType == models.RoleStudent {
			if _, err := s.studentRepo.GetByUserID(ctx, user.ID); err == nil {
				return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "cannot change the role of a user with a linked student profile")
			}
		}
		user.UserType = *req.UserType
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	s.attachProfile(ctx, user, &resp)
	return &resp, nil
}

// PrepareDelete runs the same authorization and existence checks as the
// delete itself and returns the username to name in the confirmation
// prompt. No state changes.
func (s *userServiceImpl) PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error) {
	if _, err := policy.Authorize(caller, policy.ResourceUsers, policy.OpDelete); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// DeleteUser removes an identity. A linked student profile and its records
// go with it in the same transaction.
func (s *userServiceImpl) DeleteUser(ctx context.Context, caller models.Caller, id int64) error {
	if _, err := policy.Authorize(caller, policy.ResourceUsers, policy.OpDelete); err != nil {
		return err
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// attachProfile fills in the linked student profile when one exists.
func (s *userServiceImpl) attachProfile(ctx context.Context, user *models.User, resp *dto.UserResponse) {
	if user.UserType != models.RoleStudent {
		return
	}
	student, err := s.studentRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return
	}
	p := dto.NewStudentResponse(student)
	resp.Student = &p
}
