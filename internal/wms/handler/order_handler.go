package handler

import (
	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单状态流转、删除、PDF
type OrderHandler struct {
	base
	svc *service.OrderService
}

func NewOrderHandler(b base, svc *service.OrderService) *OrderHandler {
	return &OrderHandler{base: b, svc: svc}
}

// UpdateStatus PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var upd orderflow.StatusUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), middleware.CurrentUser(c), id, upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"order": order, "state": orderflow.State(*order)})
}

// Convert POST /api/orders/:id/convert?confirm=true
func (h *OrderHandler) Convert(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.svc.Convert(c.Request.Context(), middleware.CurrentUser(c), id, confirmed(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"order": order, "state": orderflow.State(*order)})
}

// Delete DELETE /api/orders/:id?confirm=true
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), id, confirmed(c)); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"redirect": "/orders"})
}

// PDF GET /api/orders/:id/pdf
func (h *OrderHandler) PDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, filename, contentType, err := h.svc.PDF(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(200, contentType, data)
}
