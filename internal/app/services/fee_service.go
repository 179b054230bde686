package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/app/models/dto"
	"github.com/anandps/schooldesk/internal/app/policy"
	"github.com/anandps/schooldesk/internal/app/repositories"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
	"github.com/anandps/schooldesk/internal/pkg/helpers"
)

// FeeService defines the interface for fee record operations
type FeeService interface {
	ListRecords(ctx context.Context, caller models.Caller) ([]dto.FeeRecordResponse, error)
	GetRecord(ctx context.Context, caller models.Caller, id int64) (*dto.FeeRecordResponse, error)
	CreateRecord(ctx context.Context, caller models.Caller, req *dto.CreateFeeRecordRequest) (*dto.FeeRecordResponse, error)
	UpdateRecord(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateFeeRecordRequest) (*dto.FeeRecordResponse, error)
	PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error)
	DeleteRecord(ctx context.Context, caller models.Caller, id int64) error
}

// feeServiceImpl implements the FeeService interface
type feeServiceImpl struct {
	feeRepo     repositories.IFeeRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewFeeService creates a new fee service instance
func NewFeeService(
	feeRepo repositories.IFeeRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) FeeService {
	return &feeServiceImpl{
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// roundAmount keeps monetary amounts at two decimal places, matching the
// NUMERIC(10,2) column.
func roundAmount(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ListRecords returns fee records visible to the caller. Owner-scoped
// callers see only records of their own profile.
func (s *feeServiceImpl) ListRecords(ctx context.Context, caller models.Caller) ([]dto.FeeRecordResponse, error) {
	decision, err := policy.Authorize(caller, policy.ResourceFees, policy.OpList)
	if err != nil {
		return nil, err
	}

	var records []*models.FeeRecord
	if decision == policy.AllowOwn {
		records, err = s.feeRepo.ListByOwner(ctx, caller.UserID)
	} else {
		records, err = s.feeRepo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list fee records: %w", err)
	}
	return dto.NewFeeRecordListResponse(records), nil
}

// GetRecord returns a single fee record. For owner-scoped callers a
// record owned by someone else is forbidden, not hidden.
func (s *feeServiceImpl) GetRecord(ctx context.Context, caller models.Caller, id int64) (*dto.FeeRecordResponse, error) {
	record, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpRead)
	if err != nil {
		return nil, err
	}
	resp := dto.NewFeeRecordResponse(record)
	return &resp, nil
}

// CreateRecord creates a fee record. Student callers always create against
// their own profile; the supplied student id is ignored.
func (s *feeServiceImpl) CreateRecord(ctx context.Context, caller models.Caller, req *dto.CreateFeeRecordRequest) (*dto.FeeRecordResponse, error) {
	decision, err := policy.Authorize(caller, policy.ResourceFees, policy.OpCreate)
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

	paymentDate, err := helpers.ParseDate(req.PaymentDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid payment_date")
	}

	record := &models.FeeRecord{
		StudentID:   studentID,
		FeeType:     req.FeeType,
		Amount:      roundAmount(req.Amount),
		PaymentDate: paymentDate,
		Remarks:     req.Remarks,
	}

	id, err := s.feeRepo.Insert(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("record_id", id).Int64("student_id", studentID).Msg("Fee record created")

	created, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewFeeRecordResponse(created)
	return &resp, nil
}

// UpdateRecord applies a partial update to a fee record. The owning
// student of an existing record never changes through this path.
func (s *feeServiceImpl) UpdateRecord(ctx context.Context, caller models.Caller, id int64, req *dto.UpdateFeeRecordRequest) (*dto.FeeRecordResponse, error) {
	record, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpUpdate)
	if err != nil {
		return nil, err
	}

	if req.FeeType != nil {
		record.FeeType = *req.FeeType
	}
	if req.Amount != nil {
		record.Amount = roundAmount(*req.Amount)
	}
	if req.PaymentDate != nil {
		paymentDate, err := helpers.ParseDate(*req.PaymentDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid payment_date")
		}
		record.PaymentDate = paymentDate
	}
	if req.Remarks != nil {
		record.Remarks = req.Remarks
	}

	if err := s.feeRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	updated, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewFeeRecordResponse(updated)
	return &resp, nil
}

// PrepareDelete runs the authorization, existence and ownership checks for
// a delete and returns the name for the confirmation prompt. Prefers the
// owning identity's username, falling back to the fee type.
func (s *feeServiceImpl) PrepareDelete(ctx context.Context, caller models.Caller, id int64) (string, error) {
	record, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpDelete)
	if err != nil {
		return "", err
	}
	if record.OwnerName != "" {
		return record.OwnerName, nil
	}
	return record.FeeType, nil
}

// DeleteRecord removes a fee record
func (s *feeServiceImpl) DeleteRecord(ctx context.Context, caller models.Caller, id int64) error {
	if _, _, err := s.fetchAuthorized(ctx, caller, id, policy.OpDelete); err != nil {
		return err
	}

	if err := s.feeRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("record_id", id).Msg("Fee record deleted")
	return nil
}

// fetchAuthorized evaluates the matrix, loads the record, and enforces
// ownership for owner-scoped callers, in that order.
func (s *feeServiceImpl) fetchAuthorized(ctx context.Context, caller models.Caller, id int64, op policy.Operation) (*models.FeeRecord, policy.Decision, error) {
	decision, err := policy.Authorize(caller, policy.ResourceFees, op)
	if err != nil {
		return nil, policy.Deny, err
	}

	record, err := s.feeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, decision, err
	}

	if decision == policy.AllowOwn {
		if err := policy.RequireOwner(caller, policy.ResourceFees, op, record.OwnerUserID); err != nil {
			return nil, decision, err
		}
	}
	return record, decision, nil
}
