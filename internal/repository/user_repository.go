package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldreport-auth/internal/domain"
)

const uniqueViolation = "23505"

// UserRepository defines persistence access for phone-identified accounts.
type UserRepository interface {
	CreateMinimal(ctx context.Context, phoneNumber string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, profile domain.Profile, status domain.UserStatus) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, phone_number, name, email, gender, age, occupation, role, status, created_at, last_active_at`

// CreateMinimal inserts a user carrying only a phone number. Role and status
// take their column defaults.
func (r *userRepository) CreateMinimal(ctx context.Context, phoneNumber string) (*domain.User, error) {
	const query = `
        INSERT INTO users (phone_number)
        VALUES ($1)
        RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, phoneNumber))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrPhoneTaken
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, profile domain.Profile, status domain.UserStatus) error {
	const query = `
        UPDATE users
        SET name=$1, email=$2, gender=$3, age=$4, occupation=$5, status=$6, last_active_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		profile.Name,
		profile.Email,
		profile.Gender,
		profile.Age,
		profile.Occupation,
		status,
		id,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone_number=$1`
	return scanUser(r.pool.QueryRow(ctx, query, phoneNumber))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Name,
		&user.Email,
		&user.Gender,
		&user.Age,
		&user.Occupation,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.LastActiveAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
