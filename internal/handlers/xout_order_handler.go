package handlers

import (
	"github.com/gin-gonic/gin"

	"xchain-backend/internal/asset"
	"xchain-backend/internal/dto"
	"xchain-backend/internal/events"
	"xchain-backend/internal/services"
)

// XoutOrderHandler serves /xout-orders and /notifications/transfer
type XoutOrderHandler struct {
	orders *services.XoutOrderService
}

func NewXoutOrderHandler(orders *services.XoutOrderService) *XoutOrderHandler {
	return &XoutOrderHandler{orders: orders}
}

// Notify POST /notifications/transfer ; the caller is the issuing bank
func (h *XoutOrderHandler) Notify(c *gin.Context) {
	var req dto.TransferNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	quantity, err := asset.ParseAsset(req.Quantity)
	if err != nil {
		respondWithError(c, err)
		return
	}
	order, err := h.orders.Notify(c.Request.Context(), callerOf(c), events.TransferNotice{
		From:     req.From,
		To:       req.To,
		Quantity: quantity,
		Memo:     req.Memo,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// MarkSent POST /xout-orders/:id/sent
func (h *XoutOrderHandler) MarkSent(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.MarkSentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}
	order, err := h.orders.MarkSent(c.Request.Context(), callerOf(c), id, req.TxID, req.XoutFrom)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// Confirm POST /xout-orders/:id/confirm
func (h *XoutOrderHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.ConfirmSent(c.Request.Context(), callerOf(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// Approve POST /xout-orders/:id/approve
func (h *XoutOrderHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.ApproveOutboundOrder(c.Request.Context(), callerOf(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// Cancel POST /xout-orders/:id/cancel
func (h *XoutOrderHandler) Cancel(c *gin.Context) {
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
	order, err := h.orders.CancelOutboundOrder(c.Request.Context(), callerOf(c), id, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// Get GET /xout-orders/:id
func (h *XoutOrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	order, err := h.orders.GetOutboundOrder(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, order)
}

// List GET /xout-orders
func (h *XoutOrderHandler) List(c *gin.Context) {
	filter := parseOrderFilter(c)
	orders, total, err := h.orders.ListOutboundOrders(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondList(c, orders, total, filter)
}
