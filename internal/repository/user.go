package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ktozkim/watchdog/internal/domain"
)

const pgUniqueViolation = "23505"

const userColumns = `id, email, password_hash, first_name, last_name, google_id, auth_provider, created_at, updated_at`

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their internal ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email. Callers are expected to pass a
// case-normalized address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByGoogleID retrieves a user by their Google account identifier.
func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return &user, nil
}

// Create inserts a new user row and returns it. A unique-constraint conflict
// on email or google_id surfaces as domain.ErrDuplicateUser so concurrent
// registrations for the same address resolve cleanly.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (*domain.User, error) {
	var created domain.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, google_id, auth_provider)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		user.Email, user.PasswordHash, user.FirstName, user.LastName, user.GoogleID, user.AuthProvider,
	).StructScan(&created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

// LinkGoogleAccount attaches a Google identifier to an existing row and flips
// its auth provider to google, returning the updated row.
func (r *UserRepository) LinkGoogleAccount(ctx context.Context, id int64, googleID string) (*domain.User, error) {
	var updated domain.User
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users
		 SET google_id = $2, auth_provider = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, googleID, domain.AuthProviderGoogle,
	).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, domain.ErrDuplicateUser
		}
		return nil, fmt.Errorf("link google account for user %d: %w", id, err)
	}
	return &updated, nil
}
