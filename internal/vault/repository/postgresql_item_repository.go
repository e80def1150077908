// Package repository implements vault item persistence for PostgreSQL and MySQL.
// Every query is scoped by owner so items of other users are never visible.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// PostgreSQLItemRepository implements Item persistence for PostgreSQL databases.
type PostgreSQLItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLItemRepository creates a new PostgreSQL Item repository instance.
func NewPostgreSQLItemRepository(db *sql.DB) *PostgreSQLItemRepository {
	return &PostgreSQLItemRepository{db: db}
}

// Create inserts a new vault item.
func (p *PostgreSQLItemRepository) Create(ctx context.Context, item *vaultDomain.Item) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO vault_items (id, user_id, site_name, encrypted_url, encrypted_password, encrypted_notes, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.SiteName,
		item.EncryptedURL,
		item.EncryptedPassword,
		item.EncryptedNotes,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create vault item")
	}
	return nil
}

// Update replaces the mutable columns of an item owned by item.UserID.
func (p *PostgreSQLItemRepository) Update(ctx context.Context, item *vaultDomain.Item) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE vault_items
			  SET site_name = $1, encrypted_url = $2, encrypted_password = $3, encrypted_notes = $4, updated_at = $5
			  WHERE id = $6 AND user_id = $7`

	result, err := querier.ExecContext(
		ctx,
		query,
		item.SiteName,
		item.EncryptedURL,
		item.EncryptedPassword,
		item.EncryptedNotes,
		item.UpdatedAt,
		item.ID,
		item.UserID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault item")
	}
	return checkAffected(result)
}

// GetByID retrieves an item by ID, scoped to its owner.
func (p *PostgreSQLItemRepository) GetByID(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*vaultDomain.Item, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, site_name, encrypted_url, encrypted_password, encrypted_notes, created_at, updated_at
			  FROM vault_items
			  WHERE id = $1 AND user_id = $2`

	var item vaultDomain.Item
	err := querier.QueryRowContext(ctx, query, itemID, userID).Scan(
		&item.ID,
		&item.UserID,
		&item.SiteName,
		&item.EncryptedURL,
		&item.EncryptedPassword,
		&item.EncryptedNotes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault item")
	}

	return &item, nil
}

// ListByUser retrieves a page of items ordered by site name.
func (p *PostgreSQLItemRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Item, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, site_name, encrypted_url, encrypted_password, encrypted_notes, created_at, updated_at
			  FROM vault_items
			  WHERE user_id = $1
			  ORDER BY site_name ASC, id ASC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault items")
	}
	defer func() {
		_ = rows.Close()
	}()

	items := make([]*vaultDomain.Item, 0)
	for rows.Next() {
		var item vaultDomain.Item
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.SiteName,
			&item.EncryptedURL,
			&item.EncryptedPassword,
			&item.EncryptedNotes,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault item")
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate vault items")
	}

	return items, nil
}

// Delete removes an item owned by userID.
func (p *PostgreSQLItemRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM vault_items WHERE id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete vault item")
	}
	return checkAffected(result)
}

// checkAffected maps a write that matched no row to ErrItemNotFound.
func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return vaultDomain.ErrItemNotFound
	}
	return nil
}
