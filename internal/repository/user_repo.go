package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fleetreserve/internal/db"
)

type UserRepository interface {
	Create(ctx context.Context, user *db.User) error
	GetByEmail(ctx context.Context, email string) (*db.User, error)
	GetByID(ctx context.Context, id string) (*db.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(ctx context.Context, user *db.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting user: %w", err)
	}
	return nil
}

// GetByEmail returns (nil, nil) when no user exists for the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	query := `
		SELECT id, email, password_hash, first_name, last_name, COALESCE(phone, ''), created_at, updated_at
		FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	query := `
		SELECT id, email, password_hash, first_name, last_name, COALESCE(phone, ''), created_at, updated_at
		FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.Phone, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user by id: %w", err)
	}
	return &user, nil
}
