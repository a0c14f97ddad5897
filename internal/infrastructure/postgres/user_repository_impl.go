package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prasetyodwi/user-auth-service/internal/domain/entity"
	"github.com/prasetyodwi/user-auth-service/internal/domain/repository"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
)

// Postgres error code for unique_violation.
const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, role, date_of_birth, phone, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role,
		&u.DateOfBirth, &u.Phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}

	// The password hash stays out of the by-id projection.
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, role, date_of_birth, phone, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role,
		&u.DateOfBirth, &u.Phone, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, name, email, password string, dateOfBirth time.Time, phone string) (int64, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return 0, err
	}

	var id int64
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, date_of_birth, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, name, email, hash, entity.RoleUser, dateOfBirth, phone)

	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, repository.ErrDuplicateEmail
		}
		return 0, err
	}

	return id, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name string, dateOfBirth time.Time, phone string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, date_of_birth = $2, phone = $3, updated_at = now()
		WHERE id = $4
	`, name, dateOfBirth, phone, id)
	if err != nil {
		return false, err
	}

	return res.RowsAffected() > 0, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, hash, id)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
