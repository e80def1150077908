package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

var itemColumns = []string{
	"id", "user_id", "site_name", "encrypted_url", "encrypted_password", "encrypted_notes", "created_at", "updated_at",
}

func strPtr(s string) *string {
	return &s
}

func newTestItem() *vaultDomain.Item {
	now := time.Now().UTC().Truncate(time.Second)
	return &vaultDomain.Item{
		ID:                uuid.Must(uuid.NewV7()),
		UserID:            uuid.Must(uuid.NewV7()),
		SiteName:          "example.com",
		EncryptedURL:      strPtr("dXJsLWNpcGhlcnRleHQ="),
		EncryptedPassword: "cGFzc3dvcmQtY2lwaGVydGV4dA==",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestPostgreSQLItemRepository_Create(t *testing.T) {
	ctx := context.Background()
	insert := regexp.QuoteMeta("INSERT INTO vault_items")

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)
		item := newTestItem()

		mock.ExpectExec(insert).
			WithArgs(item.ID, item.UserID, item.SiteName, *item.EncryptedURL, item.EncryptedPassword, nil, item.CreatedAt, item.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.Create(ctx, item))
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)

		mock.ExpectExec(insert).WillReturnError(errors.New("connection reset"))

		assert.Error(t, repo.Create(ctx, newTestItem()))
	})
}

func TestPostgreSQLItemRepository_Update(t *testing.T) {
	ctx := context.Background()
	update := regexp.QuoteMeta("UPDATE vault_items")

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)
		item := newTestItem()

		mock.ExpectExec(update).
			WithArgs(item.SiteName, *item.EncryptedURL, item.EncryptedPassword, nil, item.UpdatedAt, item.ID, item.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, item))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)

		mock.ExpectExec(update).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, newTestItem()), vaultDomain.ErrItemNotFound)
	})
}

func TestPostgreSQLItemRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	selectQuery := regexp.QuoteMeta("FROM vault_items") + ".*" + regexp.QuoteMeta("WHERE id = $1 AND user_id = $2")

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)
		item := newTestItem()

		mock.ExpectQuery(selectQuery).
			WithArgs(item.ID, item.UserID).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(
				item.ID.String(), item.UserID.String(), item.SiteName, *item.EncryptedURL, item.EncryptedPassword, nil,
				item.CreatedAt, item.UpdatedAt,
			))

		got, err := repo.GetByID(ctx, item.UserID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.ID, got.ID)
		assert.Equal(t, item.SiteName, got.SiteName)
		require.NotNil(t, got.EncryptedURL)
		assert.Equal(t, *item.EncryptedURL, *got.EncryptedURL)
		assert.Nil(t, got.EncryptedNotes)
		assert.Nil(t, got.Plaintext)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)

		mock.ExpectQuery(selectQuery).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, vaultDomain.ErrItemNotFound)
	})
}

func TestPostgreSQLItemRepository_ListByUser(t *testing.T) {
	ctx := context.Background()
	listQuery := regexp.QuoteMeta("WHERE user_id = $1") + ".*" + regexp.QuoteMeta("LIMIT $2 OFFSET $3")

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)
		a, b := newTestItem(), newTestItem()
		b.UserID = a.UserID
		b.SiteName = "github.com"

		mock.ExpectQuery(listQuery).
			WithArgs(a.UserID, 50, 0).
			WillReturnRows(sqlmock.NewRows(itemColumns).
				AddRow(a.ID.String(), a.UserID.String(), a.SiteName, nil, a.EncryptedPassword, nil, a.CreatedAt, a.UpdatedAt).
				AddRow(b.ID.String(), b.UserID.String(), b.SiteName, nil, b.EncryptedPassword, "bm90ZXM=", b.CreatedAt, b.UpdatedAt))

		items, err := repo.ListByUser(ctx, a.UserID, 0, 50)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "example.com", items[0].SiteName)
		require.NotNil(t, items[1].EncryptedNotes)
		assert.Equal(t, "bm90ZXM=", *items[1].EncryptedNotes)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)

		mock.ExpectQuery(listQuery).WillReturnRows(sqlmock.NewRows(itemColumns))

		items, err := repo.ListByUser(ctx, uuid.Must(uuid.NewV7()), 0, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)
	})

	t.Run("Error_Database", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)

		mock.ExpectQuery(listQuery).WillReturnError(errors.New("timeout"))

		_, err := repo.ListByUser(ctx, uuid.Must(uuid.NewV7()), 0, 10)
		assert.Error(t, err)
	})
}

func TestPostgreSQLItemRepository_Delete(t *testing.T) {
	ctx := context.Background()
	deleteQuery := regexp.QuoteMeta("DELETE FROM vault_items WHERE id = $1 AND user_id = $2")

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)
		item := newTestItem()

		mock.ExpectExec(deleteQuery).WithArgs(item.ID, item.UserID).WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, item.UserID, item.ID))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLItemRepository(db)

		mock.ExpectExec(deleteQuery).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(ctx, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, vaultDomain.ErrItemNotFound)
	})
}
