package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler serves accounts and their limits
type AccountHandler struct {
	accounts usecase.AccountUseCase
	limits   usecase.LimitUseCase
}

// NewAccountHandler creates a new account handler instance
func NewAccountHandler(accounts usecase.AccountUseCase, limits usecase.LimitUseCase) *AccountHandler {
	return &AccountHandler{accounts: accounts, limits: limits}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.Create(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewAccountResponse(account))
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(accounts, dto.NewAccountResponse))
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, valid := pathID(c, "id")
	if !valid {
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), middleware.UserID(c), accountID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewAccountResponse(account))
}

// Freeze handles POST /accounts/:id/freeze
func (h *AccountHandler) Freeze(c *gin.Context) {
	accountID, valid := pathID(c, "id")
	if !valid {
		return
	}
	account, err := h.accounts.Freeze(c.Request.Context(), middleware.UserID(c), accountID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewAccountResponse(account))
}

// Unfreeze handles POST /accounts/:id/unfreeze
func (h *AccountHandler) Unfreeze(c *gin.Context) {
	accountID, valid := pathID(c, "id")
	if !valid {
		return
	}
	account, err := h.accounts.Unfreeze(c.Request.Context(), middleware.UserID(c), accountID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewAccountResponse(account))
}

// ListLimits handles GET /accounts/:id/limits
func (h *AccountHandler) ListLimits(c *gin.Context) {
	accountID, valid := pathID(c, "id")
	if !valid {
		return
	}
	limits, err := h.limits.ListAccountLimits(c.Request.Context(), middleware.UserID(c), accountID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(limits, dto.NewAccountLimitResponse))
}

// SetLimit handles PUT /accounts/:id/limits
func (h *AccountHandler) SetLimit(c *gin.Context) {
	accountID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.SetAccountLimitRequest
	if !bindJSON(c, &req) {
		return
	}
	limit, err := h.limits.SetAccountLimit(c.Request.Context(), middleware.UserID(c), accountID, req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewAccountLimitResponse(limit))
}

// ListUserLimits handles GET /limits
func (h *AccountHandler) ListUserLimits(c *gin.Context) {
	limits, err := h.limits.ListUserLimits(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(limits, dto.NewUserLimitResponse))
}

// SetUserLimit handles PUT /limits
func (h *AccountHandler) SetUserLimit(c *gin.Context) {
	var req dto.SetUserLimitRequest
	if !bindJSON(c, &req) {
		return
	}
	limit, err := h.limits.SetUserLimit(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewUserLimitResponse(limit))
}
