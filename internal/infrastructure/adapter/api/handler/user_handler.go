package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	userUseCase usecase.UserUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userUseCase.Register(c.Request.Context(), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewUserResponse(user))
}

// Profile handles GET /users/me
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.userUseCase.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile handles PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userUseCase.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewUserResponse(user))
}

// ConnectWallet handles POST /users/me/wallet
func (h *UserHandler) ConnectWallet(c *gin.Context) {
	var req dto.ConnectWalletRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userUseCase.ConnectWallet(c.Request.Context(), middleware.UserID(c), req.WalletAddress)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewUserResponse(user))
}

// Preferences handles GET /users/me/preferences
func (h *UserHandler) Preferences(c *gin.Context) {
	prefs, err := h.userUseCase.GetPreferences(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewPreferencesResponse(prefs))
}

// UpdatePreferences handles PUT /users/me/preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if !bindJSON(c, &req) {
		return
	}
	prefs, err := h.userUseCase.UpdatePreferences(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.NewPreferencesResponse(prefs))
}

// SetKYCStatus handles PUT /admin/users/:id/kyc
func (h *UserHandler) SetKYCStatus(c *gin.Context) {
	userID, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.KYCStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status := entity.KYCStatus(req.Status)
	if !status.IsValid() {
		fail(c, domainerr.NewValidationError("status", "must be one of pending verified rejected expired"))
		return
	}

	user, err := h.userUseCase.SetKYCStatus(c.Request.Context(), userID, status)
	if err != nil {
		fail(c, err)
		return
	}
	h.logger.Info("KYC status changed by back office", map[string]any{
		"user_id":    userID.String(),
		"kyc_status": string(status),
	})
	ok(c, http.StatusOK, dto.NewUserResponse(user))
}
