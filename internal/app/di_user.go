package app

import (
	"fmt"

	authService "github.com/allisson/passvault/internal/auth/service"
	"github.com/allisson/passvault/internal/httputil"
	userHTTP "github.com/allisson/passvault/internal/user/http"
	userRepository "github.com/allisson/passvault/internal/user/repository"
	userUsecase "github.com/allisson/passvault/internal/user/usecase"
)

// IdentityTokenService returns the JWT service signing identity tokens.
func (c *Container) IdentityTokenService() (authService.IdentityTokenService, error) {
	var err error
	c.identityTokensInit.Do(func() {
		c.identityTokens, err = c.initIdentityTokenService()
		if err != nil {
			c.initErrors["identityTokens"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityTokens"]; exists {
		return nil, storedErr
	}
	return c.identityTokens, nil
}

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (userStore, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// UserHandler returns the registration, login and logout handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		c.userHandler, err = c.initUserHandler()
		if err != nil {
			c.initErrors["userHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

// SessionCookie returns the cookie settings shared by the user and vault handlers.
func (c *Container) SessionCookie() httputil.SessionCookie {
	return httputil.SessionCookie{
		Name:   c.config.SessionCookieName,
		Secure: c.config.SessionCookieSecure,
		MaxAge: c.config.SessionAbsoluteTTL,
	}
}

// initIdentityTokenService creates the JWT service from configuration.
func (c *Container) initIdentityTokenService() (authService.IdentityTokenService, error) {
	service, err := authService.NewJWTService([]byte(c.config.JWTSecret), c.config.JWTIssuer, c.config.JWTExpiration)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity token service: %w", err)
	}
	return service, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (userStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	access, err := c.AccessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get access use case for user use case: %w", err)
	}

	identityTokens, err := c.IdentityTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity token service for user use case: %w", err)
	}

	return userUsecase.NewUserUseCase(txManager, userRepo, access, identityTokens, c.Logger()), nil
}

// initUserHandler creates the user HTTP handler.
func (c *Container) initUserHandler() (*userHTTP.UserHandler, error) {
	userUseCase, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for user handler: %w", err)
	}

	return userHTTP.NewUserHandler(userUseCase, c.SessionCookie(), c.Logger()), nil
}
