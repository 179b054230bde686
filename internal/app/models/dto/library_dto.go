package dto

import (
	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/pkg/helpers"
)

// CreateLibraryRecordRequest represents library record creation data. For
// student callers the student field is overridden with their own profile
// regardless of the supplied value.
type CreateLibraryRecordRequest struct {
	Student    int64               `json:"student"`
	BookName   string              `json:"book_name" binding:"required,max=255"`
	BorrowDate string              `json:"borrow_date" binding:"required,datetime=2006-01-02"`
	ReturnDate string              `json:"return_date" binding:"required,datetime=2006-01-02"`
	Status     models.BorrowStatus `json:"status" binding:"omitempty,oneof=borrowed returned"`
}

// UpdateLibraryRecordRequest represents a partial record update; nil
// fields are left untouched.
type UpdateLibraryRecordRequest struct {
	BookName   *string              `json:"book_name,omitempty" binding:"omitempty,max=255"`
	BorrowDate *string              `json:"borrow_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	ReturnDate *string              `json:"return_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Status     *models.BorrowStatus `json:"status,omitempty" binding:"omitempty,oneof=borrowed returned"`
}

// LibraryRecordResponse represents library record data returned to callers
type LibraryRecordResponse struct {
	ID         int64               `json:"id"`
	Student    int64               `json:"student"`
	BookName   string              `json:"book_name"`
	BorrowDate string              `json:"borrow_date" example:"2024-06-01"`
	ReturnDate string              `json:"return_date" example:"2024-06-15"`
	Status     models.BorrowStatus `json:"status"`
}

// NewLibraryRecordResponse maps a library record to its response shape
func NewLibraryRecordResponse(record *models.LibraryRecord) LibraryRecordResponse {
	return LibraryRecordResponse{
		ID:         record.ID,
		Student:    record.StudentID,
		BookName:   record.BookName,
		BorrowDate: helpers.FormatDate(record.BorrowDate),
		ReturnDate: helpers.FormatDate(record.ReturnDate),
		Status:     record.Status,
	}
}

// NewLibraryRecordListResponse maps a record collection to its response shape
func NewLibraryRecordListResponse(records []*models.LibraryRecord) []LibraryRecordResponse {
	out := make([]LibraryRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewLibraryRecordResponse(record))
	}
	return out
}
