package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/dto"
	"xchain-backend/internal/services"
)

// LedgerHandler serves /transfers and /accounts
type LedgerHandler struct {
	transfers *services.TransferService
	accounts  *services.AccountService
}

func NewLedgerHandler(transfers *services.TransferService, accounts *services.AccountService) *LedgerHandler {
	return &LedgerHandler{transfers: transfers, accounts: accounts}
}

// Transfer POST /transfers ; responds with the withdrawal order when one
// was opened
func (h *LedgerHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	quantity, err := asset.ParseAsset(req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}
	order, err := h.transfers.Transfer(c.Request.Context(), callerOf(c), services.TransferParams{
		To:       req.To,
		Quantity: quantity,
		Memo:     req.Memo,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "xout_order": order})
}

// OpenAccount POST /accounts
func (h *LedgerHandler) OpenAccount(c *gin.Context) {
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	if err := h.accounts.OpenAccount(c.Request.Context(), callerOf(c), req.Name); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": req})
}

// Issue POST /accounts/:name/issue
func (h *LedgerHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	quantity, err := asset.ParseAsset(req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.accounts.Issue(c.Request.Context(), callerOf(c), c.Param("name"), quantity, req.Memo); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, nil)
}

// Balances GET /accounts/:name/balances
func (h *LedgerHandler) Balances(c *gin.Context) {
	balances, err := h.accounts.Balances(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, balances)
}
