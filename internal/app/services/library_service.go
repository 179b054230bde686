package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/policy"
	"github.com/anandps/schooldesk/internal/app/repositories"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
	"github.com/anandps/schooldesk/internal/pkg/helpers"
)

// LibraryService defines the interface for library record operations
type LibraryService interface {
	ListRecords(ctx context.Context, caller models.Caller) ([]dto.LibraryRecordResponse, error)
	GetRecord(ctx context.Context, caller models.Caller, id int64) (*dto.LibraryRecordResponse, error)
	CreateRecord(ctx context.Context, caller models.Caller, req *dto.CreateLibraryRecordRequest) (*dto.LibraryRecordResponse, error)
	UpdateRecord(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateLibraryRecordRequest) (*dto.LibraryRecordResponse, error)
	PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error)
	DeleteRecord(ctx context.Context, caller models.Caller, id int64) error
}

// libraryServiceImpl implements the LibraryService interface
type libraryServiceImpl struct {
	libraryRepo repositories.ILibraryRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewLibraryService creates a new library service instance
func NewLibraryService(
	libraryRepo repositories.ILibraryRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) LibraryService {
	return &libraryServiceImpl{
		libraryRepo: libraryRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// ListRecords returns library records visible to the caller. Owner-scoped
// callers see only records of their own profile.
func (s *libraryServiceImpl) ListRecords(ctx context.Context, caller models.Caller) ([]dto.LibraryRecordResponse, error) {
	decision, err := policy.Authorize(caller, policy.ResourceLibrary, policy.OpList)
	if err != nil {
		return nil, err
	}

	var records []*models.LibraryRecord
	if decision == policy.AllowOwn {
		records, err = s.libraryRepo.ListByOwner(ctx, caller.UserID)
	} else {
		records, err = s.libraryRepo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list library records: %w", err)
	}
	return dto.NewLibraryRecordListResponse(records), nil
}

// GetRecord returns a single library record. For owner-scoped callers a
// record owned by someone else is forbidden, not hidden.
func (s *libraryServiceImpl) GetRecord(ctx context.Context, caller models.Caller, id int64) (*dto.LibraryRecordResponse, error) {
	record, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpRead)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLibraryRecordResponse(record)
	return &resp, nil
}

// CreateRecord creates a library record. Student callers always create
// against their own profile; the supplied student id is ignored.
func (s *libraryServiceImpl) CreateRecord(ctx context.Context, caller models.Caller, req *dto.CreateLibraryRecordRequest) (*dto.LibraryRecordResponse, error) {
	decision, err := policy.Authorize(caller, policy.ResourceLibrary, policy.OpCreate)
	if err != nil {
		return nil, err
	}

	studentID := req.Student
	if decision == policy.AllowOwn {
		own, err := s.studentRepo.GetByUserID(ctx, caller.UserID)
		if err != nil {
			return nil, apperrors.ErrNoStudentProfile
		}
		studentID = own.ID
	} else {
		if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
			if errors.Is(err, apperrors.ErrStudentNotFound) {
				return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "student does not exist")
			}
			return nil, err
		}
	}

	borrowDate, err := helpers.ParseDate(req.BorrowDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid borrow_date")
	}
	returnDate, err := helpers.ParseDate(req.ReturnDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid return_date")
	}

	status := req.Status
	if status == "" {
		status = models.StatusBorrowed
	}

	record := &models.LibraryRecord{
		StudentID:  studentID,
		BookName:   req.BookName,
		BorrowDate: borrowDate,
		ReturnDate: returnDate,
		Status:     status,
	}

	id, err := s.libraryRepo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("record_id", id).Int64("student_id", studentID).Msg("Library record created")

	created, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewLibraryRecordResponse(created)
	return &resp, nil
}

// UpdateRecord applies a partial update to a library record. The owning
// student of an existing record never changes through this path.
func (s *libraryServiceImpl) UpdateRecord(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateLibraryRecordRequest) (*dto.LibraryRecordResponse, error) {
	record, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpUpdate)
	if err != nil {
		return nil, err
	}

	if req.BookName != nil {
		record.BookName = *req.BookName
	}
	if req.BorrowDate != nil {
		borrowDate, err := helpers.ParseDate(*req.BorrowDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid borrow_date")
		}
		record.BorrowDate = borrowDate
	}
	if req.ReturnDate != nil {
		returnDate, err := helpers.ParseDate(*req.ReturnDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid return_date")
		}
		record.ReturnDate = returnDate
	}
	if req.Status != nil {
		record.Status = *req.Status
	}

	if err := s.libraryRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	resp := dto.NewLibraryRecordResponse(record)
	return &resp, nil
}

// PrepareDelete runs the authorization, existence and ownership checks for
// a delete and returns the book name for the confirmation prompt.
func (s *libraryServiceImpl) PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error) {
	record, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpDelete)
	if err != nil {
		return "", err
	}
	return record.BookName, nil
}

// DeleteRecord removes a library record
func (s *libraryServiceImpl) DeleteRecord(ctx context.Context, caller models.Caller, id int64) error {
	if _, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpDelete); err != nil {
		return err
	}

	if err := s.libraryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("record_id", id).Msg("Library record deleted")
	return nil
}

// fetchAuthorized evaluates the matrix, loads the record, and enforces
// ownership for owner-scoped callers, in that order.
func (s *libraryServiceImpl) fetchAuthorized(ctx context.Context, caller models.Caller, id int64, op policy.Operation) (*models.LibraryRecord, policy.Decision, error) {
	decision, err := policy.Authorize(caller, policy.ResourceLibrary, op)
	if err != nil {
		return nil, policy.Deny, err
	}

	record, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, decision, err
	}

	if decision == policy.AllowOwn {
		if err := policy.RequireOwner(caller, policy.ResourceLibrary, op, record.OwnerUserID); err != nil {
			return nil, decision, err
		}
	}
	return record, decision, nil
}
