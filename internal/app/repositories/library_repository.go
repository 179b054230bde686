package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
)

// ILibraryRepository defines the interface for library record store operations
type ILibraryRepository interface {
	Insert(ctx context.Context, record *models.LibraryRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.LibraryRecord, error)
	List(ctx context.Context) ([]*models.LibraryRecord, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.LibraryRecord, error)
	Update(ctx context.Context, record *models.LibraryRecord) error
	Delete(ctx context.Context, id int64) error
}

// LibraryRepository handles library record database operations
type LibraryRepository struct {
	db *pgxpool.Pool
}

// NewLibraryRepository creates a new LibraryRepository
func NewLibraryRepository(db *pgxpool.Pool) *LibraryRepository {
	return &LibraryRepository{
		db: db,
	}
}

// libraryColumns joins the owning profile so reads carry the owner's
// identity for ownership checks.
const libraryColumns = `
	l.id, l.student_id, l.book_name, l.borrow_date, l.return_date, l.status, s.user_id
	FROM library_records l
	JOIN students s ON s.id = l.student_id`

func scanLibraryRecord(row pgx.Row) (*models.LibraryRecord, error) {
	record := &models.LibraryRecord{}
	err := row.Scan(&record.ID, &record.StudentID, &record.BookName,
		&record.BorrowDate, &record.ReturnDate, &record.Status, &record.OwnerUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLibraryRecordNotFound
		}
		return nil, fmt.Errorf("error scanning library record row: %w", err)
	}
	return record, nil
}

// Insert creates a new library record
func (r *LibraryRepository) Insert(ctx context.Context, record *models.LibraryRecord) (int64, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO library_records (student_id, book_name, borrow_date, return_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		record.StudentID, record.BookName, record.BorrowDate, record.ReturnDate, record.Status).Scan(&record.ID)
	if err != nil {
		return 0, fmt.Errorf("error creating library record: %w", err)
	}

	return record.ID, nil
}

// GetByID retrieves a library record by id
func (r *LibraryRepository) GetByID(ctx context.Context, id int64) (*models.LibraryRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+libraryColumns+` WHERE l.id = $1`, id)
	return scanLibraryRecord(row)
}

// List retrieves all library records ordered by id
func (r *LibraryRepository) List(ctx context.Context) ([]*models.LibraryRecord, error) {
	return r.queryRecords(ctx, `SELECT `+libraryColumns+` ORDER BY l.id`)
}

// ListByOwner retrieves the library records whose owning profile is linked
// to the given identity.
func (r *LibraryRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.LibraryRecord, error) {
	return r.queryRecords(ctx, `SELECT `+libraryColumns+` WHERE s.user_id = $1 ORDER BY l.id`, ownerUserID)
}

func (r *LibraryRepository) queryRecords(ctx context.Context, sql string, args ...interface{}) ([]*models.LibraryRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing library records: %w", err)
	}
	defer rows.Close()

	var records []*models.LibraryRecord
	for rows.Next() {
		record, err := scanLibraryRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Update writes the mutable record fields
func (r *LibraryRepository) Update(ctx context.Context, record *models.LibraryRecord) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE library_records
		SET student_id = $1, book_name = $2, borrow_date = $3, return_date = $4, status = $5
		WHERE id = $6`,
		record.StudentID, record.BookName, record.BorrowDate, record.ReturnDate, record.Status, record.ID)
	if err != nil {
		return fmt.Errorf("error updating library record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLibraryRecordNotFound
	}

	return nil
}

// Delete removes a library record
func (r *LibraryRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM library_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting library record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLibraryRecordNotFound
	}

	return nil
}
