package dto

import (
	"time"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/pkg/helpers"
)

// CreateFeeRecordRequest represents fee record creation data. For student
// callers the student field is overridden with their own profile
// regardless of the supplied value.
type CreateFeeRecordRequest struct {
	Student     int64   `json:"student"`
	FeeType     string  `json:"fee_type" binding:"required,max=100"`
	Amount      float64 `json:"amount" binding:"gte=0"`
	PaymentDate string  `json:"payment_date" binding:"required,datetime=2006-01-02"`
	Remarks     *string `json:"remarks,omitempty"`
}

// UpdateFeeRecordRequest represents a partial record update; nil fields
// are left untouched.
type UpdateFeeRecordRequest struct {
	FeeType     *string  `json:"fee_type,omitempty" binding:"omitempty,max=100"`
	Amount      *float64 `json:"amount,omitempty" binding:"omitempty,gte=0"`
	PaymentDate *string  `json:"payment_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Remarks     *string  `json:"remarks,omitempty"`
}

// FeeRecordResponse represents fee record data returned to callers.
// StudentName is the owning student's username when a linked identity
// exists.
type FeeRecordResponse struct {
	ID          int64     `json:"id"`
	Student     int64     `json:"student"`
	StudentName string    `json:"student_name,omitempty"`
	FeeType     string    `json:"fee_type"`
	Amount      float64   `json:"amount"`
	PaymentDate string    `json:"payment_date" example:"2024-06-01"`
	Remarks     *string   `json:"remarks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewFeeRecordResponse maps a fee record to its response shape
func NewFeeRecordResponse(record *models.FeeRecord) FeeRecordResponse {
	return FeeRecordResponse{
		ID:          record.ID,
		Student:     record.StudentID,
		StudentName: record.OwnerName,
		FeeType:     record.FeeType,
		Amount:      record.Amount,
		PaymentDate: helpers.FormatDate(record.PaymentDate),
		Remarks:     record.Remarks,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// NewFeeRecordListResponse maps a record collection to its response shape
func NewFeeRecordListResponse(records []*models.FeeRecord) []FeeRecordResponse {
	out := make([]FeeRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewFeeRecordResponse(record))
	}
	return out
}
