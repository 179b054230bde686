package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandps/schooldesk/internal/app/models"
	"github.com/anandps/schooldesk/internal/db"
	"github.com/anandps/schooldesk/internal/pkg/apperrors"
	"github.com/anandps/schooldesk/internal/pkg/dberrors"
)

// IStudentRepository defines the interface for student profile store operations
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	CreateWithUser(ctx context.Context, student *models.Student, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	DeleteCascade(ctx context.Context, id int64) error
}

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(&student.ID, &student.UserID, &student.Name, &student.RollNumber, &student.ClassName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error scanning student row: %w", err)
	}
	return student, nil
}

// Create inserts an unlinked student profile
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO students (user_id, name, roll_number, class_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		student.UserID, student.Name, student.RollNumber, student.ClassName).Scan(&student.ID)
	if err != nil {
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	return student.ID, nil
}

// CreateWithUser inserts a student profile together with a linked
// student-role identity in a single transaction.
func (r *StudentRepository) CreateWithUser(ctx context.Context, student *models.Student, user *models.User) (int64, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, password, user_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, date_joined`,
			user.Username, user.Email, user.Password, models.RoleStudent).Scan(&user.ID, &user.DateJoined)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
				return apperrors.ErrUsernameTaken
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		student.UserID = &user.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO students (user_id, name, roll_number, class_name)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			user.ID, student.Name, student.RollNumber, student.ClassName).Scan(&student.ID)
		if err != nil {
			return fmt.Errorf("error creating student: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return student.ID, nil
}

// GetByID retrieves a student profile by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, roll_number, class_name
		FROM students
		WHERE id = $1`, id)
	return scanStudent(row)
}

// GetByUserID retrieves the student profile linked to an identity. This is
// the ownership pivot used by the policy checks.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, roll_number, class_name
		FROM students
		WHERE user_id = $1`, userID)
	return scanStudent(row)
}

// List retrieves all student profiles ordered by id
func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, roll_number, class_name
		FROM students
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// Update writes the mutable profile fields
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE students
		SET name = $1, roll_number = $2, class_name = $3
		WHERE id = $4`,
		student.Name, student.RollNumber, student.ClassName, student.ID)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// DeleteCascade removes a student profile, its linked identity and all of
// its library/fee records in one transaction. The record cascade rides the
// FK graph; the linked identity needs the explicit extra delete.
func (r *StudentRepository) DeleteCascade(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var userID *int64
		err := tx.QueryRow(ctx, `SELECT user_id FROM students WHERE id = $1`, id).Scan(&userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error looking up student: %w", err)
		}

		if userID != nil {
			// Deleting the identity cascades to the profile and records.
			if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, *userID); err != nil {
				return fmt.Errorf("error deleting linked user: %w", err)
			}
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}

		return nil
	})
}
