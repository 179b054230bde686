package models

import (
	"time"
)

// BorrowStatus defines the lifecycle state of a library record. Transitions
// are caller-driven; nothing flips a record to returned automatically.
type BorrowStatus string

const (
	StatusBorrowed BorrowStatus = "borrowed"
	StatusReturned BorrowStatus = "returned"
)

// Valid reports whether the status is a known borrow status.
func (s BorrowStatus) Valid() bool {
	return s == StatusBorrowed || s == StatusReturned
}

// LibraryRecord defines the borrow/return history model based on the
// 'library_records' table.
type LibraryRecord struct {
	ID          int64        `json:"id" db:"id"`
	StudentID   int64        `json:"student" db:"student_id"`
	BookName    string       `json:"book_name" db:"book_name"`
	BorrowDate  time.Time    `json:"borrow_date" db:"borrow_date"`
	ReturnDate  time.Time    `json:"return_date" db:"return_date"`
	Status      BorrowStatus `json:"status" db:"status"`
	OwnerUserID *int64       `json:"-"` // linked identity of the owning student, populated on reads
}
