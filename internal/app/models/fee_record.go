package models

import (
	"time"
)

// FeeRecord defines the fee payment model based on the 'fee_records' table.
// Amount maps to NUMERIC(10,2); CreatedAt/UpdatedAt are system-maintained.
type FeeRecord struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"student" db:"student_id"`
	FeeType     string    `json:"fee_type" db:"fee_type"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
	Remarks     *string   `json:"remarks,omitempty" db:"remarks"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	OwnerUserID *int64    `json:"-"` // linked identity of the owning student, populated on reads
	OwnerName   string    `json:"-"` // owning student's username, for prompts and responses
}
