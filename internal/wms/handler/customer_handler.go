package handler

import (
	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	base
	svc *service.CustomerService
}

func NewCustomerHandler(b base, svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{base: b, svc: svc}
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req apiclient.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, customer)
}

// Update PUT /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apiclient.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, customer)
}

// Delete DELETE /api/customers/:id?confirm=true
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"redirect": "/customers"})
}
