package usecase

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	accessUseCase "github.com/allisson/passvault/internal/access/usecase"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	sessionDomain "github.com/allisson/passvault/internal/session/domain"
	sessionService "github.com/allisson/passvault/internal/session/service"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// memoryStore is an in-memory ItemRepository and CredentialRepository.
type memoryStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]vaultDomain.Item
	creds map[uuid.UUID]*accessDomain.UserCredential
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		items: make(map[uuid.UUID]vaultDomain.Item),
		creds: make(map[uuid.UUID]*accessDomain.UserCredential),
	}
}

func (s *memoryStore) GetCredential(_ context.Context, userID uuid.UUID) (*accessDomain.UserCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[userID]
	if !ok {
		return nil, accessDomain.ErrCredentialNotFound
	}
	return cred, nil
}

func (s *memoryStore) Create(_ context.Context, item *vaultDomain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *item
	stored.Plaintext = nil
	s.items[item.ID] = stored
	return nil
}

func (s *memoryStore) Update(_ context.Context, item *vaultDomain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[item.ID]
	if !ok || existing.UserID != item.UserID {
		return vaultDomain.ErrItemNotFound
	}
	stored := *item
	stored.Plaintext = nil
	s.items[item.ID] = stored
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, userID, itemID uuid.UUID) (*vaultDomain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return nil, vaultDomain.ErrItemNotFound
	}
	return &item, nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID uuid.UUID, offset, limit int) ([]*vaultDomain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]*vaultDomain.Item, 0)
	for _, item := range s.items {
		if item.UserID == userID {
			items = append(items, &item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SiteName < items[j].SiteName })
	if offset >= len(items) {
		return []*vaultDomain.Item{}, nil
	}
	return items[offset:min(offset+limit, len(items))], nil
}

func (s *memoryStore) Delete(_ context.Context, userID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return vaultDomain.ErrItemNotFound
	}
	delete(s.items, itemID)
	return nil
}

func newFlow(t *testing.T) (VaultUseCase, *memoryStore, uuid.UUID) {
	t.Helper()

	pepper := cryptoDomain.Pepper("flow-pepper-0123456789abcdef0123")
	hasher, err := cryptoService.NewPasswordHasher(pepper, cryptoDomain.DefaultIterations)
	require.NoError(t, err)
	deriver, err := cryptoService.NewKeyDeriver(pepper, cryptoDomain.DefaultIterations)
	require.NoError(t, err)

	cache := sessionService.NewCache(nil)
	t.Cleanup(cache.Close)

	store := newMemoryStore()
	access := accessUseCase.NewAccessUseCase(
		store,
		hasher,
		deriver,
		cryptoService.NewAESCBCCipher(),
		cache,
		sessionService.NewTokenService(),
		sessionDomain.DefaultPolicy(),
		slog.New(slog.DiscardHandler),
	)

	userID := uuid.Must(uuid.NewV7())
	hash, salt, err := access.HashPassword("Tr0ub4dor&3")
	require.NoError(t, err)
	store.creds[userID] = &accessDomain.UserCredential{UserID: userID, PasswordHash: hash, Salt: salt}

	return NewVaultUseCase(store, access, slog.New(slog.DiscardHandler)), store, userID
}

func TestVaultFlow_StoreWithMasterPasswordReadWithSession(t *testing.T) {
	uc, store, userID := newFlow(t)
	ctx := context.Background()

	created, token, err := uc.Create(
		ctx,
		accessDomain.ResolveInput{Identity: userID, MasterSecret: "Tr0ub4dor&3"},
		vaultDomain.ItemInput{SiteName: "example.com", URL: "https://example.com", Password: "hunter2"},
	)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	raw := store.items[created.ID]
	assert.NotContains(t, raw.EncryptedPassword, "hunter2")
	assert.Nil(t, raw.EncryptedNotes)

	got, newToken, err := uc.Get(ctx, accessDomain.ResolveInput{Identity: userID, SessionToken: token}, created.ID)
	require.NoError(t, err)
	assert.Empty(t, newToken)
	assert.Equal(t, "hunter2", got.Plaintext.Password)
	assert.Equal(t, "https://example.com", got.Plaintext.URL)
	assert.Empty(t, got.Plaintext.Notes)

	_, _, err = uc.Get(ctx, accessDomain.ResolveInput{Identity: userID, SessionToken: "forged"}, created.ID)
	assert.ErrorIs(t, err, accessDomain.ErrSessionExpired)
}

func TestVaultFlow_WrongMasterPassword(t *testing.T) {
	uc, store, userID := newFlow(t)
	ctx := context.Background()

	_, token, err := uc.Create(
		ctx,
		accessDomain.ResolveInput{Identity: userID, MasterSecret: "tr0ub4dor&3"},
		vaultDomain.ItemInput{SiteName: "example.com", Password: "hunter2"},
	)

	assert.ErrorIs(t, err, accessDomain.ErrAuthenticationFailure)
	assert.Empty(t, token)
	assert.Empty(t, store.items)
}

func TestVaultFlow_OtherUserCannotRead(t *testing.T) {
	uc, store, owner := newFlow(t)
	ctx := context.Background()

	created, _, err := uc.Create(
		ctx,
		accessDomain.ResolveInput{Identity: owner, MasterSecret: "Tr0ub4dor&3"},
		vaultDomain.ItemInput{SiteName: "example.com", Password: "hunter2"},
	)
	require.NoError(t, err)

	// A second authenticated user cannot reach the owner's item.
	intruder := uuid.Must(uuid.NewV7())
	store.creds[intruder] = &accessDomain.UserCredential{
		UserID:       intruder,
		PasswordHash: store.creds[owner].PasswordHash,
		Salt:         store.creds[owner].Salt,
	}

	_, _, err = uc.Get(ctx, accessDomain.ResolveInput{Identity: intruder, MasterSecret: "Tr0ub4dor&3"}, created.ID)
	assert.ErrorIs(t, err, vaultDomain.ErrItemNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, intruder, created.ID), vaultDomain.ErrItemNotFound)
	require.NoError(t, uc.Delete(ctx, owner, created.ID))

	items, err := uc.List(ctx, owner, 0, 50)
	require.NoError(t, err)
	assert.Empty(t, items)
}
