package repository

import (
	"context"
	"errors"
	"time"

	"github.com/prasetyodwi/user-auth-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned by lookups when no row matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned by Create when the email uniqueness
	// constraint rejects the insert.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository is the persistence capability for the User entity.
// Every operation issues exactly one query against the store.
type UserRepository interface {
	// GetByEmail returns the full stored record including the password
	// hash, which login needs for verification.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByID returns the record without the password hash.
	GetByID(ctx context.Context, id int64) (*entity.User, error)

	// Create hashes the plaintext password, stores the new user with
	// role "user", and returns the assigned id.
	Create(ctx context.Context, name, email, password string, dateOfBirth time.Time, phone string) (int64, error)

	// UpdateProfile updates the three mutable fields and refreshes
	// updated_at. It reports whether any row was affected.
	UpdateProfile(ctx context.Context, id int64, name string, dateOfBirth time.Time, phone string) (bool, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int64, hash string) error
}
