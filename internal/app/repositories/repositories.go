package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository    *UserRepository
	StudentRepository *StudentRepository
	LibraryRepository *LibraryRepository
	FeeRepository     *FeeRepository
	TokenRepository   *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:    NewUserRepository(db),
		StudentRepository: NewStudentRepository(db),
		LibraryRepository: NewLibraryRepository(db),
		FeeRepository:     NewFeeRepository(db),
		TokenRepository:   NewTokenRepository(db),
	}
}
