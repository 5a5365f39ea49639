package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xchain-backend/internal/dto"
	"xchain-backend/internal/services"
)

// AddressHandler serves /addresses
type AddressHandler struct {
	addresses *services.AddressService
}

func NewAddressHandler(addresses *services.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// Request POST /addresses/request
func (h *AddressHandler) Request(c *gin.Context) {
	var req dto.RequestAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	addr, err := h.addresses.RequestAddress(c.Request.Context(), callerOf(c), req.Account, req.BaseChain, req.MulsignWalletID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": addr})
}

// Assign POST /addresses/assign
func (h *AddressHandler) Assign(c *gin.Context) {
	var req dto.AssignAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	addr, err := h.addresses.AssignAddress(c.Request.Context(), callerOf(c), req.Account, req.BaseChain, req.MulsignWalletID, req.XinTo)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, addr)
}

// List GET /addresses?account= ; defaults to the caller
func (h *AddressHandler) List(c *gin.Context) {
	account := c.Query("account")
	if account == "" {
		account = callerOf(c)
	}
	if xinTo := c.Query("xin_to"); xinTo != "" {
		addr, err := h.addresses.GetAddressByXinTo(c.Request.Context(), xinTo)
		if err != nil {
			respondWithError(c, err)
			return
		}
		respondOK(c, addr)
		return
	}
	list, err := h.addresses.ListAddresses(c.Request.Context(), account)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, list)
}
