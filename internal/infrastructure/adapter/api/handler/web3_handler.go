package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Web3Handler serves the chain facing endpoints and DeFi positions
type Web3Handler struct {
	web3 usecase.Web3UseCase
	defi usecase.DeFiUseCase
}

// NewWeb3Handler creates a new web3 handler instance
func NewWeb3Handler(web3 usecase.Web3UseCase, defi usecase.DeFiUseCase) *Web3Handler {
	return &Web3Handler{web3: web3, defi: defi}
}

// Networks handles GET /web3/networks
func (h *Web3Handler) Networks(c *gin.Context) {
	networks, err := h.web3.ListNetworks(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(networks, dto.NewNetworkResponse))
}

// Balances handles GET /web3/balances?wallet=
func (h *Web3Handler) Balances(c *gin.Context) {
	balances, err := h.web3.ListBalances(c.Request.Context(), middleware.UserID(c), c.Query("wallet"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(balances, dto.NewWalletBalanceResponse))
}

// RefreshBalances handles POST /web3/balances/refresh?wallet=
func (h *Web3Handler) RefreshBalances(c *gin.Context) {
	balances, err := h.web3.RefreshBalances(c.Request.Context(), middleware.UserID(c), c.Query("wallet"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(balances, dto.NewWalletBalanceResponse))
}

// SendTransaction handles POST /web3/transactions
func (h *Web3Handler) SendTransaction(c *gin.Context) {
	var req dto.SendChainTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	interaction, err := h.web3.SendTransaction(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewInteractionResponse(interaction))
}

// Interactions handles GET /web3/transactions
func (h *Web3Handler) Interactions(c *gin.Context) {
	page, valid := pageQuery(c)
	if !valid {
		return
	}
	result, err := h.web3.ListInteractions(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		fail(c, err)
		return
	}
	okPage(c, result, dto.NewInteractionResponse)
}

// GasPrices handles GET /web3/gas-prices
func (h *Web3Handler) GasPrices(c *gin.Context) {
	prices, err := h.web3.GasPrices(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(prices, dto.NewGasPriceResponse))
}

// Protocols handles GET /defi/protocols
func (h *Web3Handler) Protocols(c *gin.Context) {
	protocols, err := h.defi.ListProtocols(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(protocols, dto.NewProtocolResponse))
}

// Positions handles GET /defi/positions
func (h *Web3Handler) Positions(c *gin.Context) {
	positions, err := h.defi.ListPositions(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, dto.List(positions, dto.NewPositionResponse))
}

// Stake handles POST /defi/stake
func (h *Web3Handler) Stake(c *gin.Context) {
	var req dto.StakeRequest
	if !bindJSON(c, &req) {
		return
	}
	position, err := h.defi.Stake(c.Request.Context(), middleware.UserID(c), req.Command())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, dto.NewPositionResponse(position))
}
