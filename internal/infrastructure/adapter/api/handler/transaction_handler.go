package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactions usecase.TransactionUseCase
	logger       coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(
	transactions usecase.TransactionUseCase,
	logger coreport.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.transactions.Create(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewTransactionResponse(tx))
}

// List handles GET /transactions?account_id=&status=&type=&limit=&offset=
func (h *TransactionHandler) List(c *gin.Context) {
	page, valid := pageQuery(c)
	if !valid {
		return
	}
	accountID, valid := optionalUUIDQuery(c, "account_id")
	if !valid {
		return
	}

	result, err := h.transactions.List(c.Request.Context(), middleware.UserID(c), usecase.ListTransactionsQuery{
		AccountID: accountID,
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		Page:      page,
	})
	if err != nil {
		fail(c, err)
		return
	}
	okPage(c, result, dto.NewTransactionResponse)
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	txID, valid := pathID(c, "id")
	if !valid {
		return
	}
	tx, err := h.transactions.Get(c.Request.Context(), middleware.UserID(c), txID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewTransactionResponse(tx))
}

// Process handles POST /transactions/:id/process. A rejected posting still
// answers with the rejection; the transaction is then failed.
func (h *TransactionHandler) Process(c *gin.Context) {
	txID, valid := pathID(c, "id")
	if !valid {
		return
	}
	tx, err := h.transactions.ProcessPending(c.Request.Context(), middleware.UserID(c), txID)
	if err != nil {
		if tx != nil {
			h.logger.Info("Pending transaction marked failed", map[string]any{
				"transaction_id": tx.ID.String(),
				"reason":         tx.FailureReason,
			})
		}
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewTransactionResponse(tx))
}

// Cancel handles POST /transactions/:id/cancel
func (h *TransactionHandler) Cancel(c *gin.Context) {
	txID, valid := pathID(c, "id")
	if !valid {
		return
	}
	tx, err := h.transactions.Cancel(c.Request.Context(), middleware.UserID(c), txID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewTransactionResponse(tx))
}

// Dispute handles POST /transactions/:id/dispute
func (h *TransactionHandler) Dispute(c *gin.Context) {
	txID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.DisputeRequest
	if !bindJSON(c, &req) {
		return
	}
	dispute, err := h.transactions.Dispute(c.Request.Context(), middleware.UserID(c), txID, req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewDisputeResponse(dispute))
}

// Analytics handles GET /transactions/analytics?days=
func (h *TransactionHandler) Analytics(c *gin.Context) {
	days, valid := daysQuery(c)
	if !valid {
		return
	}
	analytics, err := h.transactions.Analytics(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewAnalyticsResponse(analytics))
}

// Spending handles GET /transactions/spending?days=
func (h *TransactionHandler) Spending(c *gin.Context) {
	days, valid := daysQuery(c)
	if !valid {
		return
	}
	spending, err := h.transactions.SpendingByCategory(c.Request.Context(), middleware.UserID(c), days)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(spending, dto.NewSpendingResponse))
}

// ListCategories handles GET /transaction-categories
func (h *TransactionHandler) ListCategories(c *gin.Context) {
	categories, err := h.transactions.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(categories, dto.NewCategoryResponse))
}

// CreateCategory handles POST /admin/transaction-categories
func (h *TransactionHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.transactions.CreateCategory(c.Request.Context(), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewCategoryResponse(category))
}
