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

// IUserRepository defines the interface for identity store operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	CreateWithProfile(ctx context.Context, user *models.User, profile *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// UserRepository handles identity database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, username, email, password, user_type, date_joined`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.UserType, &user.DateJoined)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user row: %w", err)
	}
	return user, nil
}

// Create inserts a new identity
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, user_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_joined`,
		user.Username, user.Email, user.Password, user.UserType).Scan(&id, &user.DateJoined)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return 0, apperrors.ErrUsernameTaken
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	return id, nil
}

// CreateWithProfile inserts an identity and, when profile is non-nil, its
// linked student profile in a single transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, profile *models.Student) (int64, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, password, user_type)
			VALUES ($1, $2, $3, $4)
			RETURNING id, date_joined`,
			user.Username, user.Email, user.Password, user.UserType).Scan(&user.ID, &user.DateJoined)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
				return apperrors.ErrUsernameTaken
			}
			return fmt.Errorf("error creating user: %w", err)
		}

		if profile == nil {
			return nil
		}

		profile.UserID = &user.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO students (user_id, name, roll_number, class_name)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			user.ID, profile.Name, profile.RollNumber, profile.ClassName).Scan(&profile.ID)
		if err != nil {
			return fmt.Errorf("error creating student profile: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetByID retrieves an identity by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByUsername retrieves an identity by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// List retrieves all identities ordered by id
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update writes the mutable identity fields
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password = $3, user_type = $4
		WHERE id = $5`,
		user.Username, user.Email, user.Password, user.UserType, user.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_username_key") {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("error updating user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Delete removes an identity. The linked student profile and its records
// go with it through the FK cascade, so the whole removal is one atomic
// statement.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// UsernameExists checks if a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking username: %w", err)
	}

	return exists, nil
}
