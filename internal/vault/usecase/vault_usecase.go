package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	accessUseCase "github.com/allisson/passvault/internal/access/usecase"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
	appValidation "github.com/allisson/passvault/internal/validation"
)

// vaultUseCase implements VaultUseCase.
type vaultUseCase struct {
	itemRepo ItemRepository
	access   accessUseCase.AccessUseCase
	logger   *slog.Logger
}

// NewVaultUseCase creates a new VaultUseCase.
func NewVaultUseCase(
	itemRepo ItemRepository,
	access accessUseCase.AccessUseCase,
	logger *slog.Logger,
) VaultUseCase {
	return &vaultUseCase{
		itemRepo: itemRepo,
		access:   access,
		logger:   logger,
	}
}

func validateItemInput(input vaultDomain.ItemInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.SiteName,
			validation.Required.Error("site name is required"),
			appValidation.NotBlank,
			validation.RuneLength(1, 255).Error("site name must be between 1 and 255 characters"),
		),
		validation.Field(&input.URL,
			appValidation.URL,
			validation.RuneLength(0, 2048).Error("url must be at most 2048 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(1, 1024).Error("password must be at most 1024 characters"),
		),
		validation.Field(&input.Notes,
			validation.RuneLength(0, 10000).Error("notes must be at most 10000 characters"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create encrypts and stores a new item.
func (v *vaultUseCase) Create(
	ctx context.Context,
	access accessDomain.ResolveInput,
	input vaultDomain.ItemInput,
) (*vaultDomain.Item, string, error) {
	if err := validateItemInput(input); err != nil {
		return nil, "", err
	}

	resolution, err := v.access.ResolveKey(ctx, access)
	if err != nil {
		return nil, "", err
	}
	defer resolution.Zero()

	now := time.Now().UTC()
	item := &vaultDomain.Item{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    access.Identity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := v.seal(item, input, resolution.Key); err != nil {
		return nil, resolution.NewToken, err
	}

	if err := v.itemRepo.Create(ctx, item); err != nil {
		return nil, resolution.NewToken, err
	}

	v.logger.Debug("vault item created",
		slog.String("user_id", item.UserID.String()),
		slog.String("item_id", item.ID.String()),
	)

	return item, resolution.NewToken, nil
}

// Update re-encrypts every field of an existing item with fresh IVs.
func (v *vaultUseCase) Update(
	ctx context.Context,
	access accessDomain.ResolveInput,
	itemID uuid.UUID,
	input vaultDomain.ItemInput,
) (*vaultDomain.Item, string, error) {
	if err := validateItemInput(input); err != nil {
		return nil, "", err
	}

	resolution, err := v.access.ResolveKey(ctx, access)
	if err != nil {
		return nil, "", err
	}
	defer resolution.Zero()

	item, err := v.itemRepo.GetByID(ctx, access.Identity, itemID)
	if err != nil {
		return nil, resolution.NewToken, err
	}
	if !item.OwnedBy(access.Identity) {
		return nil, resolution.NewToken, vaultDomain.ErrItemNotFound
	}

	item.UpdatedAt = time.Now().UTC()
	if err := v.seal(item, input, resolution.Key); err != nil {
		return nil, resolution.NewToken, err
	}

	if err := v.itemRepo.Update(ctx, item); err != nil {
		return nil, resolution.NewToken, err
	}

	return item, resolution.NewToken, nil
}

// Get retrieves and decrypts an item.
func (v *vaultUseCase) Get(
	ctx context.Context,
	access accessDomain.ResolveInput,
	itemID uuid.UUID,
) (*vaultDomain.Item, string, error) {
	resolution, err := v.access.ResolveKey(ctx, access)
	if err != nil {
		return nil, "", err
	}
	defer resolution.Zero()

	item, err := v.itemRepo.GetByID(ctx, access.Identity, itemID)
	if err != nil {
		return nil, resolution.NewToken, err
	}
	if !item.OwnedBy(access.Identity) {
		return nil, resolution.NewToken, vaultDomain.ErrItemNotFound
	}

	fields, err := v.open(item, resolution.Key)
	if err != nil {
		v.logger.Error("failed to decrypt vault item",
			slog.String("item_id", item.ID.String()),
			slog.Any("error", err),
		)
		return nil, resolution.NewToken, err
	}
	item.Plaintext = fields

	return item, resolution.NewToken, nil
}

// List returns a page of item metadata for userID.
func (v *vaultUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Item, error) {
	return v.itemRepo.ListByUser(ctx, userID, offset, limit)
}

// Delete removes an item owned by userID.
func (v *vaultUseCase) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	return v.itemRepo.Delete(ctx, userID, itemID)
}

// seal encrypts input into item. Empty URL and notes are stored as absent.
func (v *vaultUseCase) seal(item *vaultDomain.Item, input vaultDomain.ItemInput, key cryptoDomain.DerivedKey) error {
	password, err := v.access.EncryptField(input.Password, key)
	if err != nil {
		return err
	}

	url, err := v.sealOptional(input.URL, key)
	if err != nil {
		return err
	}

	notes, err := v.sealOptional(input.Notes, key)
	if err != nil {
		return err
	}

	item.SiteName = strings.TrimSpace(input.SiteName)
	item.EncryptedPassword = password
	item.EncryptedURL = url
	item.EncryptedNotes = notes
	item.Plaintext = &vaultDomain.Fields{
		URL:      input.URL,
		Password: input.Password,
		Notes:    input.Notes,
	}
	return nil
}

func (v *vaultUseCase) sealOptional(value string, key cryptoDomain.DerivedKey) (*string, error) {
	if value == "" {
		return nil, nil
	}
	encrypted, err := v.access.EncryptField(value, key)
	if err != nil {
		return nil, err
	}
	return &encrypted, nil
}

func (v *vaultUseCase) open(item *vaultDomain.Item, key cryptoDomain.DerivedKey) (*vaultDomain.Fields, error) {
	password, err := v.access.DecryptField(item.EncryptedPassword, key)
	if err != nil {
		return nil, err
	}

	url, err := v.openOptional(item.EncryptedURL, key)
	if err != nil {
		return nil, err
	}

	notes, err := v.openOptional(item.EncryptedNotes, key)
	if err != nil {
		return nil, err
	}

	return &vaultDomain.Fields{URL: url, Password: password, Notes: notes}, nil
}

func (v *vaultUseCase) openOptional(token *string, key cryptoDomain.DerivedKey) (string, error) {
	if token == nil {
		return "", nil
	}
	return v.access.DecryptField(*token, key)
}
