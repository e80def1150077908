package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService on top of gocloud.dev/secrets.
// Supported schemes: awskms://, gcpkms://, azurekeyvault://, hashivault://, base64key://.
type kmsService struct{}

// NewKMSService creates a new KMSService.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a keeper for keyURI. The caller must Close it.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}
