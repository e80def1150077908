// Package repository provides data persistence implementations for user entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
	"github.com/allisson/passvault/internal/user/domain"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// PostgreSQLUserRepository handles user persistence for PostgreSQL
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password_hash, salt, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, username, email, password_hash, salt, created_at, updated_at
			  FROM users WHERE id = $1`

	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, username, email, password_hash, salt, created_at, updated_at
			  FROM users WHERE email = $1`

	return r.getOne(ctx, query, email)
}

// GetCredential retrieves the authentication material of a user for key resolution.
func (r *PostgreSQLUserRepository) GetCredential(
	ctx context.Context,
	userID uuid.UUID,
) (*accessDomain.UserCredential, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, password_hash, salt FROM users WHERE id = $1`

	var cred accessDomain.UserCredential
	err := querier.QueryRowContext(ctx, query, userID).Scan(&cred.UserID, &cred.PasswordHash, &cred.Salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user credential")
	}

	return &cred, nil
}

func (r *PostgreSQLUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Salt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	return &user, nil
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
