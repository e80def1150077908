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

// MySQLItemRepository implements Item persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLItemRepository struct {
	db *sql.DB
}

// NewMySQLItemRepository creates a new MySQL Item repository instance.
func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

// Create inserts a new vault item.
func (m *MySQLItemRepository) Create(ctx context.Context, item *vaultDomain.Item) error {
	querier := database.GetTx(ctx, m.db)

	id, userID, err := marshalIDs(item.ID, item.UserID)
	if err != nil {
		return err
	}

	query := `INSERT INTO vault_items (id, user_id, site_name, encrypted_url, encrypted_password, encrypted_notes, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		userID,
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
func (m *MySQLItemRepository) Update(ctx context.Context, item *vaultDomain.Item) error {
	querier := database.GetTx(ctx, m.db)

	id, userID, err := marshalIDs(item.ID, item.UserID)
	if err != nil {
		return err
	}

	query := `UPDATE vault_items
			  SET site_name = ?, encrypted_url = ?, encrypted_password = ?, encrypted_notes = ?, updated_at = ?
			  WHERE id = ? AND user_id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		item.SiteName,
		item.EncryptedURL,
		item.EncryptedPassword,
		item.EncryptedNotes,
		item.UpdatedAt,
		id,
		userID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault item")
	}
	// MySQL reports 0 affected rows when nothing changed, so confirm the row exists.
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		_, err := m.GetByID(ctx, item.UserID, item.ID)
		return err
	}
	return nil
}

// GetByID retrieves an item by ID, scoped to its owner.
func (m *MySQLItemRepository) GetByID(
	ctx context.Context,
	userID, itemID uuid.UUID,
) (*vaultDomain.Item, error) {
	querier := database.GetTx(ctx, m.db)

	id, owner, err := marshalIDs(itemID, userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, site_name, encrypted_url, encrypted_password, encrypted_notes, created_at, updated_at
			  FROM vault_items
			  WHERE id = ? AND user_id = ?`

	item, err := scanMySQLItem(querier.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrItemNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault item")
	}
	return item, nil
}

// ListByUser retrieves a page of items ordered by site name.
func (m *MySQLItemRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Item, error) {
	querier := database.GetTx(ctx, m.db)

	owner, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, user_id, site_name, encrypted_url, encrypted_password, encrypted_notes, created_at, updated_at
			  FROM vault_items
			  WHERE user_id = ?
			  ORDER BY site_name ASC, id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, owner, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list vault items")
	}
	defer func() {
		_ = rows.Close()
	}()

	items := make([]*vaultDomain.Item, 0)
	for rows.Next() {
		item, err := scanMySQLItem(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan vault item")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate vault items")
	}

	return items, nil
}

// Delete removes an item owned by userID.
func (m *MySQLItemRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, owner, err := marshalIDs(itemID, userID)
	if err != nil {
		return err
	}

	query := `DELETE FROM vault_items WHERE id = ? AND user_id = ?`

	result, err := querier.ExecContext(ctx, query, id, owner)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete vault item")
	}
	return checkAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMySQLItem(row rowScanner) (*vaultDomain.Item, error) {
	var item vaultDomain.Item
	var id, userID []byte

	if err := row.Scan(
		&id,
		&userID,
		&item.SiteName,
		&item.EncryptedURL,
		&item.EncryptedPassword,
		&item.EncryptedNotes,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := item.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal item id")
	}
	if err := item.UserID.UnmarshalBinary(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	return &item, nil
}

func marshalIDs(itemID, userID uuid.UUID) ([]byte, []byte, error) {
	id, err := itemID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal item id")
	}
	owner, err := userID.MarshalBinary()
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to marshal user id")
	}
	return id, owner, nil
}
