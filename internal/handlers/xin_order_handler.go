package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/dto"
	"xchain-backend/internal/services"
)

// XinOrderHandler serves /xin-orders
type XinOrderHandler struct {
	orders *services.XinOrderService
}

func NewXinOrderHandler(orders *services.XinOrderService) *XinOrderHandler {
	return &XinOrderHandler{orders: orders}
}

// Create POST /xin-orders
func (h *XinOrderHandler) Create(c *gin.Context) {
	var req dto.CreateXinOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	coin, err := asset.ParseSymbol(req.Coin)
	if err != nil {
		respondWithError(c, err)
		return
	}
	quantity, err := asset.ParseAsset(req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}

	order, err := h.orders.CreateInboundOrder(c.Request.Context(), callerOf(c), services.InboundOrderParams{
		To:       req.To,
		Chain:    req.Chain,
		Coin:     coin,
		TxID:     req.TxID,
		XinFrom:  req.XinFrom,
		XinTo:    req.XinTo,
		Quantity: quantity,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

// Approve POST /xin-orders/:id/approve
func (h *XinOrderHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.ApproveInboundOrder(c.Request.Context(), callerOf(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// Cancel POST /xin-orders/:id/cancel
func (h *XinOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithBindError(c, err)
			return
		}
	}
	order, err := h.orders.CancelInboundOrder(c.Request.Context(), callerOf(c), id, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// Get GET /xin-orders/:id
func (h *XinOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetInboundOrder(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// List GET /xin-orders
func (h *XinOrderHandler) List(c *gin.Context) {
	filter := parseOrderFilter(c)
	orders, total, err := h.orders.ListInboundOrders(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondList(c, orders, total, filter)
}
