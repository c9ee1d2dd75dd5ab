// Package repository provides persistence for user accounts.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm_backend/platform/apperr"
)

// User is an account that can sign in to the API.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}

// UserStore provides persistence for users.
type UserStore interface {
	Create(ctx context.Context, email, name, passwordHash string, roles []string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

const userColumns = `id, email, name, password_hash, roles, created_at`

const userNotFoundMessage = "user not found"

// Repo implements UserStore with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ UserStore = (*Repo)(nil)

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Roles, &u.CreatedAt)
	return u, err
}

// Create inserts a user account.
func (r *Repo) Create(ctx context.Context, email, name, passwordHash string, roles []string) (User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, roles)
		VALUES (lower($1), $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, email, name, passwordHash, roles))
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email, case insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMessage)
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}
