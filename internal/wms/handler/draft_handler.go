package handler

import (
	"fmt"
	"strconv"

	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
)

// DraftHandler 订单录入表单
type DraftHandler struct {
	base
	svc *service.DraftService
}

func NewDraftHandler(b base, svc *service.DraftService) *DraftHandler {
	return &DraftHandler{base: b, svc: svc}
}

func sessionID(c *gin.Context) string {
	return middleware.CurrentSession(c).ID
}

func formView(form *orderflow.Form, warnings []string) gin.H {
	data := gin.H{"form": form, "total": form.Total()}
	if len(warnings) > 0 {
		data["warnings"] = warnings
	}
	return data
}

func itemIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		BadRequest(c, "invalid item index")
		return 0, false
	}
	return i, true
}

// Start POST /api/orders/draft
func (h *DraftHandler) Start(c *gin.Context) {
	var req struct {
		OrderType string `json:"order_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	form, err := h.svc.Start(c.Request.Context(), sessionID(c), req.OrderType)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, formView(form, nil))
}

// StartEdit POST /api/orders/:id/edit
func (h *DraftHandler) StartEdit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	form, err := h.svc.StartEdit(c.Request.Context(), sessionID(c), middleware.CurrentUser(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, formView(form, nil))
}

// Get GET /api/orders/draft
func (h *DraftHandler) Get(c *gin.Context) {
	form, err := h.svc.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, formView(form, nil))
}

// UpdateHeader PATCH /api/orders/draft
func (h *DraftHandler) UpdateHeader(c *gin.Context) {
	var req struct {
		CustomerID *int64  `json:"customer_id"`
		Remark     *string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	form, err := h.svc.UpdateHeader(c.Request.Context(), sessionID(c), req.CustomerID, req.Remark)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, formView(form, nil))
}

// AddItem POST /api/orders/draft/items
func (h *DraftHandler) AddItem(c *gin.Context) {
	form, err := h.svc.AddItem(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, formView(form, nil))
}

// RemoveItem DELETE /api/orders/draft/items/:index
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	i, ok := itemIndex(c)
	if !ok {
		return
	}
	form, err := h.svc.RemoveItem(c.Request.Context(), sessionID(c), i)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, formView(form, nil))
}

// UpdateItem PATCH /api/orders/draft/items/:index
// body: {"field": "quantity", "value": "12"}
func (h *DraftHandler) UpdateItem(c *gin.Context) {
	i, ok := itemIndex(c)
	if !ok {
		return
	}
	var req struct {
		Field string      `json:"field" binding:"required"`
		Value interface{} `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "field is required")
		return
	}
	value := ""
	if req.Value != nil {
		value = fmt.Sprint(req.Value)
	}

	form, warnings, err := h.svc.UpdateItem(c.Request.Context(), sessionID(c), i, req.Field, value)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, formView(form, warnings))
}

// Submit POST /api/orders/draft/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	summary, err := h.svc.Submit(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"summary": summary, "awaiting_confirm": true})
}

// Confirm POST /api/orders/draft/confirm
func (h *DraftHandler) Confirm(c *gin.Context) {
	order, err := h.svc.Confirm(c.Request.Context(), sessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, gin.H{
		"order":    order,
		"redirect": fmt.Sprintf("/orders/%d", order.ID),
	})
}

// Discard DELETE /api/orders/draft
func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.svc.Discard(c.Request.Context(), sessionID(c)); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}
