package app

import (
	"context"
	"fmt"
	"time"

	accessUseCase "github.com/allisson/passvault/internal/access/usecase"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	sessionService "github.com/allisson/passvault/internal/session/service"
)

// pepperLoadTimeout bounds the KMS round trip made at startup to unwrap the pepper.
const pepperLoadTimeout = 30 * time.Second

// KMSService returns the KMS service used to unwrap the pepper.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// Pepper returns the server-wide pepper, unwrapping it through the KMS when
// VAULT_PEPPER_CIPHERTEXT is set.
func (c *Container) Pepper() (cryptoDomain.Pepper, error) {
	var err error
	c.pepperInit.Do(func() {
		c.pepper, err = c.initPepper()
		if err != nil {
			c.initErrors["pepper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pepper"]; exists {
		return nil, storedErr
	}
	return c.pepper, nil
}

// PasswordHasher returns the PBKDF2 password hasher.
func (c *Container) PasswordHasher() (cryptoService.PasswordHasher, error) {
	var err error
	c.passwordHasherInit.Do(func() {
		c.passwordHasher, err = c.initPasswordHasher()
		if err != nil {
			c.initErrors["passwordHasher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["passwordHasher"]; exists {
		return nil, storedErr
	}
	return c.passwordHasher, nil
}

// KeyDeriver returns the PBKDF2 key deriver.
func (c *Container) KeyDeriver() (cryptoService.KeyDeriver, error) {
	var err error
	c.keyDeriverInit.Do(func() {
		c.keyDeriver, err = c.initKeyDeriver()
		if err != nil {
			c.initErrors["keyDeriver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyDeriver"]; exists {
		return nil, storedErr
	}
	return c.keyDeriver, nil
}

// FieldCipher returns the AES-256-CBC field cipher.
func (c *Container) FieldCipher() cryptoService.FieldCipher {
	c.fieldCipherInit.Do(func() {
		c.fieldCipher = cryptoService.NewAESCBCCipher()
	})
	return c.fieldCipher
}

// SessionCache returns the in-memory session key cache. The first call starts the
// background sweeper, which stops on Shutdown.
func (c *Container) SessionCache() *sessionService.Cache {
	c.sessionCacheInit.Do(func() {
		c.sessionCache = c.initSessionCache()
	})
	return c.sessionCache
}

// AccessUseCase returns the key custody use case.
func (c *Container) AccessUseCase() (accessUseCase.AccessUseCase, error) {
	var err error
	c.accessUseCaseInit.Do(func() {
		c.accessUseCase, err = c.initAccessUseCase()
		if err != nil {
			c.initErrors["accessUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessUseCase"]; exists {
		return nil, storedErr
	}
	return c.accessUseCase, nil
}

// initKMSService creates the KMS service for unwrapping the pepper.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initPepper loads the pepper from plain or KMS-wrapped configuration.
func (c *Container) initPepper() (cryptoDomain.Pepper, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pepperLoadTimeout)
	defer cancel()

	loader := cryptoService.NewPepperLoader(c.KMSService())
	pepper, err := loader.Load(ctx, cryptoService.PepperSource{
		Plain:      c.config.VaultPepper,
		Ciphertext: c.config.VaultPepperCiphertext,
		KeyURI:     c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	return pepper, nil
}

// initPasswordHasher creates the password hasher bound to the pepper.
func (c *Container) initPasswordHasher() (cryptoService.PasswordHasher, error) {
	pepper, err := c.Pepper()
	if err != nil {
		return nil, fmt.Errorf("failed to get pepper for password hasher: %w", err)
	}
	return cryptoService.NewPasswordHasher(pepper, c.config.KDFIterations)
}

// initKeyDeriver creates the key deriver bound to the pepper.
func (c *Container) initKeyDeriver() (cryptoService.KeyDeriver, error) {
	pepper, err := c.Pepper()
	if err != nil {
		return nil, fmt.Errorf("failed to get pepper for key deriver: %w", err)
	}
	return cryptoService.NewKeyDeriver(pepper, c.config.KDFIterations)
}

// initSessionCache creates the session cache and starts its sweeper.
func (c *Container) initSessionCache() *sessionService.Cache {
	cache := sessionService.NewCache(c.Logger())
	if c.config.SessionSweepInterval > 0 {
		go cache.Run(c.bgCtx, c.config.SessionSweepInterval)
	}
	return cache
}

// initAccessUseCase creates the access use case with all its dependencies.
func (c *Container) initAccessUseCase() (accessUseCase.AccessUseCase, error) {
	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for access use case: %w", err)
	}

	hasher, err := c.PasswordHasher()
	if err != nil {
		return nil, fmt.Errorf("failed to get password hasher for access use case: %w", err)
	}

	deriver, err := c.KeyDeriver()
	if err != nil {
		return nil, fmt.Errorf("failed to get key deriver for access use case: %w", err)
	}

	policy := c.config.SessionPolicy()
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session policy: %w", err)
	}

	baseUseCase := accessUseCase.NewAccessUseCase(
		userRepo,
		hasher,
		deriver,
		c.FieldCipher(),
		c.SessionCache(),
		sessionService.NewTokenService(),
		policy,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for access use case: %w", err)
		}
		return accessUseCase.NewAccessUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
