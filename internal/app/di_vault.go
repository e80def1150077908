package app

import (
	"fmt"

	vaultHTTP "github.com/allisson/passvault/internal/vault/http"
	vaultRepository "github.com/allisson/passvault/internal/vault/repository"
	vaultUsecase "github.com/allisson/passvault/internal/vault/usecase"
)

// ItemRepository returns the vault item repository based on database driver.
func (c *Container) ItemRepository() (vaultUsecase.ItemRepository, error) {
	var err error
	c.itemRepoInit.Do(func() {
		c.itemRepo, err = c.initItemRepository()
		if err != nil {
			c.initErrors["itemRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["itemRepo"]; exists {
		return nil, storedErr
	}
	return c.itemRepo, nil
}

// VaultUseCase returns the vault item use case.
func (c *Container) VaultUseCase() (vaultUsecase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// ItemHandler returns the vault item HTTP handler.
func (c *Container) ItemHandler() (*vaultHTTP.ItemHandler, error) {
	var err error
	c.itemHandlerInit.Do(func() {
		c.itemHandler, err = c.initItemHandler()
		if err != nil {
			c.initErrors["itemHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["itemHandler"]; exists {
		return nil, storedErr
	}
	return c.itemHandler, nil
}

// initItemRepository creates the item repository based on the database driver.
func (c *Container) initItemRepository() (vaultUsecase.ItemRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for item repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return vaultRepository.NewPostgreSQLItemRepository(db), nil
	case "mysql":
		return vaultRepository.NewMySQLItemRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initVaultUseCase creates the vault use case with all its dependencies.
func (c *Container) initVaultUseCase() (vaultUsecase.VaultUseCase, error) {
	itemRepo, err := c.ItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get item repository for vault use case: %w", err)
	}

	access, err := c.AccessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access use case for vault use case: %w", err)
	}

	baseUseCase := vaultUsecase.NewVaultUseCase(itemRepo, access, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUsecase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initItemHandler creates the vault item HTTP handler.
func (c *Container) initItemHandler() (*vaultHTTP.ItemHandler, error) {
	vaultUseCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for item handler: %w", err)
	}

	return vaultHTTP.NewItemHandler(vaultUseCase, c.SessionCookie(), c.Logger()), nil
}
