package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// RecurringHandler serves recurring transaction templates
type RecurringHandler struct {
	recurring usecase.RecurringUseCase
}

// NewRecurringHandler creates a new recurring handler instance
func NewRecurringHandler(recurring usecase.RecurringUseCase) *RecurringHandler {
	return &RecurringHandler{recurring: recurring}
}

// Create handles POST /recurring-transactions
func (h *RecurringHandler) Create(c *gin.Context) {
	var req dto.CreateRecurringRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.recurring.Create(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewRecurringResponse(rec))
}

// List handles GET /recurring-transactions
func (h *RecurringHandler) List(c *gin.Context) {
	page, valid := pageQuery(c)
	if !valid {
		return
	}
	result, err := h.recurring.List(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	okPage(c, result, dto.NewRecurringResponse)
}

// Get handles GET /recurring-transactions/:id
func (h *RecurringHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	rec, err := h.recurring.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewRecurringResponse(rec))
}

// Execute handles POST /recurring-transactions/:id/execute
func (h *RecurringHandler) Execute(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	execution, err := h.recurring.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewRecurringExecutionResponse(execution))
}

// Toggle handles POST /recurring-transactions/:id/toggle
func (h *RecurringHandler) Toggle(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	rec, err := h.recurring.Toggle(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewRecurringResponse(rec))
}
