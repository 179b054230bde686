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

// IFeeRepository defines the interface for fee record store operations
type IFeeRepository interface {
	Insert(ctx context.Context, record *models.FeeRecord) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.FeeRecord, error)
	List(ctx context.Context) ([]*models.FeeRecord, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.FeeRecord, error)
	Update(ctx context.Context, record *models.FeeRecord) error
	Delete(ctx context.Context, id int64) error
}

// FeeRepository handles fee record database operations
type FeeRepository struct {
	db *pgxpool.Pool
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(db *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{
		db: db,
	}
}

// feeColumns joins the owning profile and its identity so reads carry the
// owner's user id plus the username surfaced in responses and prompts.
const feeColumns = `
	f.id, f.student_id, f.fee_type, f.amount, f.payment_date, f.remarks,
	f.created_at, f.updated_at, s.user_id, COALESCE(u.username, '')
	FROM fee_records f
	JOIN students s ON s.id = f.student_id
	LEFT JOIN users u ON u.id = s.user_id`

func scanFeeRecord(row pgx.Row) (*models.FeeRecord, error) {
	record := &models.FeeRecord{}
	err := row.Scan(&record.ID, &record.StudentID, &record.FeeType, &record.Amount,
		&record.PaymentDate, &record.Remarks, &record.CreatedAt, &record.UpdatedAt,
		&record.OwnerUserID, &record.OwnerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeRecordNotFound
		}
		return nil, fmt.Errorf("error scanning fee record row: %w", err)
	}
	return record, nil
}

// Insert creates a new fee record. created_at/updated_at are set by the
// store, never by the caller.
func (r *FeeRepository) Insert(ctx context.Context, record *models.FeeRecord) (int64, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO fee_records (student_id, fee_type, amount, payment_date, remarks)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		record.StudentID, record.FeeType, record.Amount, record.PaymentDate, record.Remarks).
		Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating fee record: %w", err)
	}

	return record.ID, nil
}

// GetByID retrieves a fee record by id
func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*models.FeeRecord, error) {
	row := r.db.QueryRow(ctx, `SELECT `+feeColumns+` WHERE f.id = $1`, id)
	return scanFeeRecord(row)
}

// List retrieves all fee records ordered by id
func (r *FeeRepository) List(ctx context.Context) ([]*models.FeeRecord, error) {
	return r.queryRecords(ctx, `SELECT `+feeColumns+` ORDER BY f.id`)
}

// ListByOwner retrieves the fee records whose owning profile is linked to
// the given identity.
func (r *FeeRepository) ListByOwner(ctx context.Context, ownerUserID int64) ([]*models.FeeRecord, error) {
	return r.queryRecords(ctx, `SELECT `+feeColumns+` WHERE s.user_id = $1 ORDER BY f.id`, ownerUserID)
}

func (r *FeeRepository) queryRecords(ctx context.Context, sql string, args ...interface{}) ([]*models.FeeRecord, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing fee records: %w", err)
	}
	defer rows.Close()

	var records []*models.FeeRecord
	for rows.Next() {
		record, err := scanFeeRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Update writes the mutable record fields and bumps updated_at
func (r *FeeRepository) Update(ctx context.Context, record *models.FeeRecord) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE fee_records
		SET student_id = $1, fee_type = $2, amount = $3, payment_date = $4, remarks = $5, updated_at = NOW()
		WHERE id = $6`,
		record.StudentID, record.FeeType, record.Amount, record.PaymentDate, record.Remarks, record.ID)
	if err != nil {
		return fmt.Errorf("error updating fee record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeeRecordNotFound
	}

	return nil
}

// Delete removes a fee record
func (r *FeeRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM fee_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting fee record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeeRecordNotFound
	}

	return nil
}
