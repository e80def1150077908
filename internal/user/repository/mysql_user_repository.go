package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
	"github.com/allisson/passvault/internal/user/domain"
)

// mysqlDuplicateEntry is the MySQL error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLUserRepository handles user persistence for MySQL
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (id, username, email, password_hash, salt, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	// Convert UUID to bytes for MySQL BINARY(16)
	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Salt,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, username, email, password_hash, salt, created_at, updated_at
			  FROM users WHERE id = ?`

	return r.getOne(ctx, query, idBytes)
}

// GetByEmail retrieves a user by email
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, username, email, password_hash, salt, created_at, updated_at
			  FROM users WHERE email = ?`

	return r.getOne(ctx, query, email)
}

// GetCredential retrieves the authentication material of a user for key resolution.
func (r *MySQLUserRepository) GetCredential(
	ctx context.Context,
	userID uuid.UUID,
) (*accessDomain.UserCredential, error) {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT password_hash, salt FROM users WHERE id = ?`

	cred := accessDomain.UserCredential{UserID: userID}
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(&cred.PasswordHash, &cred.Salt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accessDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user credential")
	}

	return &cred, nil
}

func (r *MySQLUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	var id []byte
	querier := database.GetTx(ctx, r.db)

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&id,
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

	if err := user.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &user, nil
}

// isMySQLUniqueViolation checks if the error is a MySQL duplicate entry error
func isMySQLUniqueViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
