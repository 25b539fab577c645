// Package app wires adapters and use cases for the binaries
package app

import (
	"context"
	"errors"
	"fmt"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/account"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/card"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/limit"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/recurring"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/transaction"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/usecase/web3"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/chain"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/event"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/random"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/security"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/validation"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/config"
)

// Container holds the connected infrastructure and every use case
type Container struct {
	Config    *config.Config
	Logger    coreport.Logger
	Clock     coreport.TimeProvider
	DB        *database.Manager
	Publisher coreport.EventPublisher
	Cache     coreport.Cache

	Auth      *auth.AuthUseCase
	Users     *user.UserUseCase
	Accounts  *account.AccountUseCase
	Limits    *limit.Service
	Ledger    *transaction.Service
	Recurring *recurring.Service
	Cards     *card.Service
	Web3      *web3.Service

	closers []func() error
}

// New connects the database, cache and event publisher and builds the use
// cases on top of them. Close releases everything New opened.
func New(ctx context.Context, cfg *config.Config, logger coreport.Logger, clock coreport.TimeProvider) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger, Clock: clock}

	encryptor, err := security.NewAEADEncryptor(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("card encryption: %w", err)
	}

	retry := database.DefaultRetryConfig()
	if cfg.Ledger.MaxRetries > 0 {
		retry.MaxRetries = cfg.Ledger.MaxRetries
	}
	c.DB = database.NewManager(cfg.Database, cfg.Logger.Level, retry, logger, clock)
	if _, err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.closers = append(c.closers, c.DB.Close)

	appCache, closeCache, err := cache.New(ctx, cfg.Cache, clock, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("cache: %w", err)
	}
	c.Cache = appCache
	c.closers = append(c.closers, closeCache)

	c.Publisher = event.New(cfg.Kafka, logger)
	c.closers = append(c.closers, c.Publisher.Close)

	uow := c.DB.CreateUnitOfWork()
	validator := validation.New()
	source := random.NewCryptoSource()
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := security.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, clock)

	c.Auth = auth.NewAuthUseCase(uow, hasher, tokens, validator, logger)
	c.Users = user.NewUserUseCase(uow, hasher, validator, clock, logger)
	c.Accounts = account.NewAccountUseCase(uow, validator, source, clock, logger)
	c.Limits = limit.NewLimitService(uow, validator, clock, c.Publisher, logger)
	c.Ledger = transaction.NewTransactionService(
		uow,
		limit.NewTracker(uow, clock, logger),
		validator,
		clock,
		source,
		c.Publisher,
		logger,
		cfg.Ledger.ReferenceAttempts,
	)
	c.Recurring = recurring.NewRecurringService(uow, c.Ledger, validator, clock, c.Publisher, logger, cfg.Scheduler.BatchSize)
	c.Cards = card.NewCardService(uow, c.Ledger, encryptor, source, validator, clock, c.Publisher, logger)
	c.Web3 = web3.NewWeb3Service(
		uow,
		chain.NewSimulatedOracle(source, cfg.Web3.OracleLatency),
		c.Cache,
		validator,
		clock,
		logger,
		web3.Options{NetworkTTL: cfg.Cache.DefaultTTL, GasPriceTTL: cfg.Cache.GasPriceTTL},
	)

	return c, nil
}

// Close releases resources in reverse order of acquisition
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
