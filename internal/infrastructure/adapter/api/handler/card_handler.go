package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// CardHandler serves cards and card charges. Responses never carry the
// full card number or the CVV.
type CardHandler struct {
	cards  usecase.CardUseCase
	logger coreport.Logger
}

// NewCardHandler creates a new card handler instance
func NewCardHandler(cards usecase.CardUseCase, logger coreport.Logger) *CardHandler {
	return &CardHandler{cards: cards, logger: logger}
}

// Issue handles POST /cards
func (h *CardHandler) Issue(c *gin.Context) {
	var req dto.IssueCardRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.cards.Issue(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewCardResponse(card))
}

// CreateVirtual handles POST /cards/virtual
func (h *CardHandler) CreateVirtual(c *gin.Context) {
	var req dto.VirtualCardRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.cards.CreateVirtual(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewCardResponse(card))
}

// List handles GET /cards
func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.cards.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(cards, dto.NewCardResponse))
}

// Get handles GET /cards/:id
func (h *CardHandler) Get(c *gin.Context) {
	cardID, valid := pathID(c, "id")
	if !valid {
		return
	}
	card, err := h.cards.Get(c.Request.Context(), middleware.UserID(c), cardID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewCardResponse(card))
}

// SetStatus handles PUT /cards/:id/status
func (h *CardHandler) SetStatus(c *gin.Context) {
	cardID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.CardStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.cards.ToggleStatus(c.Request.Context(), middleware.UserID(c), cardID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewCardResponse(card))
}

// SetLimit handles PUT /cards/:id/limits
func (h *CardHandler) SetLimit(c *gin.Context) {
	cardID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.CardLimitRequest
	if !bindJSON(c, &req) {
		return
	}
	card, err := h.cards.UpdateLimits(c.Request.Context(), middleware.UserID(c), cardID, req.SpendingLimit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewCardResponse(card))
}

// Transactions handles GET /cards/:id/transactions
func (h *CardHandler) Transactions(c *gin.Context) {
	cardID, valid := pathID(c, "id")
	if !valid {
		return
	}
	page, valid := pageQuery(c)
	if !valid {
		return
	}
	result, err := h.cards.ListTransactions(c.Request.Context(), middleware.UserID(c), cardID, page)
	if err != nil {
		fail(c, err)
		return
	}
	okPage(c, result, dto.NewCardTransactionResponse)
}

// Charge handles POST /cards/:id/charge
func (h *CardHandler) Charge(c *gin.Context) {
	cardID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.ChargeRequest
	if !bindJSON(c, &req) {
		return
	}
	charge, err := h.cards.Charge(c.Request.Context(), middleware.UserID(c), cardID, req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewChargeResponse(charge))
}
