package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/dto"
	"xchain-backend/internal/services"
)

// RegistryHandler serves /chains, /coins and /chain-coins
type RegistryHandler struct {
	registry *services.RegistryService
}

func NewRegistryHandler(registry *services.RegistryService) *RegistryHandler {
	return &RegistryHandler{registry: registry}
}

// AddChain POST /chains
func (h *RegistryHandler) AddChain(c *gin.Context) {
	var req dto.AddChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	if err := h.registry.AddChain(c.Request.Context(), callerOf(c), req.Chain, req.BaseChain, req.CommonXinAccount); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": req})
}

// DelChain DELETE /chains/:chain
func (h *RegistryHandler) DelChain(c *gin.Context) {
	if err := h.registry.DelChain(c.Request.Context(), callerOf(c), c.Param("chain")); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, nil)
}

// ListChains GET /chains
func (h *RegistryHandler) ListChains(c *gin.Context) {
	chains, err := h.registry.ListChains(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, chains)
}

// AddCoin POST /coins
func (h *RegistryHandler) AddCoin(c *gin.Context) {
	var req dto.AddCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	sym, err := asset.ParseSymbol(req.Symbol)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.registry.AddCoin(c.Request.Context(), callerOf(c), sym); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": sym})
}

// DelCoin DELETE /coins/:code
func (h *RegistryHandler) DelCoin(c *gin.Context) {
	if err := h.registry.DelCoin(c.Request.Context(), callerOf(c), c.Param("code")); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, nil)
}

// ListCoins GET /coins
func (h *RegistryHandler) ListCoins(c *gin.Context) {
	coins, err := h.registry.ListCoins(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, coins)
}

// AddChainCoin POST /chain-coins
func (h *RegistryHandler) AddChainCoin(c *gin.Context) {
	var req dto.AddChainCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	sym, err := asset.ParseSymbol(req.Coin)
	if err != nil {
		respondWithError(c, err)
		return
	}
	fee, err := asset.ParseAsset(req.Fee)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.registry.AddChainCoin(c.Request.Context(), callerOf(c), req.Chain, sym, fee); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": req})
}

// DelChainCoin DELETE /chain-coins/:chain/:coin
func (h *RegistryHandler) DelChainCoin(c *gin.Context) {
	if err := h.registry.DelChainCoin(c.Request.Context(), callerOf(c), c.Param("chain"), c.Param("coin")); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, nil)
}

// ListChainCoins GET /chain-coins?chain=
func (h *RegistryHandler) ListChainCoins(c *gin.Context) {
	coins, err := h.registry.ListChainCoins(c.Request.Context(), c.Query("chain"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, coins)
}
