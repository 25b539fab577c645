package routes

import (
	"time"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Account     *handler.AccountHandler
	Transaction *handler.TransactionHandler
	Recurring   *handler.RecurringHandler
	Card        *handler.CardHandler
	Web3        *handler.Web3Handler
	Health      *handler.HealthHandler
}

// Security carries what the guard middlewares need
type Security struct {
	Auth        usecase.AuthUseCase
	AdminAPIKey string
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers, sec Security) {
	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/users/register", h.User.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/refresh", h.Auth.Refresh)
	v1.GET("/web3/networks", h.Web3.Networks)
	v1.GET("/transaction-categories", h.Transaction.ListCategories)

	authed := v1.Group("", middleware.Auth(sec.Auth))
	{
		users := authed.Group("/users/me")
		users.GET("", h.User.Profile)
		users.PUT("", h.User.UpdateProfile)
		users.POST("/wallet", h.User.ConnectWallet)
		users.GET("/preferences", h.User.Preferences)
		users.PUT("/preferences", h.User.UpdatePreferences)

		accounts := authed.Group("/accounts")
		accounts.POST("", h.Account.Create)
		accounts.GET("", h.Account.List)
		accounts.GET("/:id", h.Account.Get)
		accounts.POST("/:id/freeze", h.Account.Freeze)
		accounts.POST("/:id/unfreeze", h.Account.Unfreeze)
		accounts.GET("/:id/limits", h.Account.ListLimits)
		accounts.PUT("/:id/limits", h.Account.SetLimit)

		authed.GET("/limits", h.Account.ListUserLimits)
		authed.PUT("/limits", h.Account.SetUserLimit)

		txs := authed.Group("/transactions")
		txs.POST("", h.Transaction.Create)
		txs.GET("", h.Transaction.List)
		txs.GET("/analytics", h.Transaction.Analytics)
		txs.GET("/spending", h.Transaction.Spending)
		txs.GET("/:id", h.Transaction.Get)
		txs.POST("/:id/process", h.Transaction.Process)
		txs.POST("/:id/cancel", h.Transaction.Cancel)
		txs.POST("/:id/dispute", h.Transaction.Dispute)

		recurring := authed.Group("/recurring-transactions")
		recurring.POST("", h.Recurring.Create)
		recurring.GET("", h.Recurring.List)
		recurring.GET("/:id", h.Recurring.Get)
		recurring.POST("/:id/execute", h.Recurring.Execute)
		recurring.POST("/:id/toggle", h.Recurring.Toggle)

		cards := authed.Group("/cards")
		cards.POST("", h.Card.Issue)
		cards.POST("/virtual", h.Card.CreateVirtual)
		cards.GET("", h.Card.List)
		cards.GET("/:id", h.Card.Get)
		cards.PUT("/:id/status", h.Card.SetStatus)
		cards.PUT("/:id/limits", h.Card.SetLimit)
		cards.GET("/:id/transactions", h.Card.Transactions)
		cards.POST("/:id/charge", h.Card.Charge)

		web3 := authed.Group("/web3")
		web3.GET("/balances", h.Web3.Balances)
		web3.POST("/balances/refresh", h.Web3.RefreshBalances)
		web3.POST("/transactions", h.Web3.SendTransaction)
		web3.GET("/transactions", h.Web3.Interactions)
		web3.GET("/gas-prices", h.Web3.GasPrices)

		defi := authed.Group("/defi")
		defi.GET("/protocols", h.Web3.Protocols)
		defi.GET("/positions", h.Web3.Positions)
		defi.POST("/stake", h.Web3.Stake)
	}

	admin := v1.Group("/admin", middleware.AdminKey(sec.AdminAPIKey))
	{
		admin.PUT("/users/:id/kyc", h.User.SetKYCStatus)
		admin.POST("/transaction-categories", h.Transaction.CreateCategory)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider, requestTimeout time.Duration) {
	// Order matters: the request id must exist before anything logs
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Timeout(requestTimeout))
}
