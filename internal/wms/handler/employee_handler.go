package handler

import (
	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmployeeHandler 员工、考勤、注册审批
type EmployeeHandler struct {
	base
	svc *service.EmployeeService
}

func NewEmployeeHandler(b base, svc *service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{base: b, svc: svc}
}

// Create POST /api/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req apiclient.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	emp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, emp)
}

// Update PUT /api/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apiclient.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	emp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, emp)
}

// Delete DELETE /api/employees/:id?confirm=true
func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, nil)
}

// Approve POST /api/users/:id/approve
func (h *EmployeeHandler) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	emp, err := h.svc.ApproveUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("User approved", zap.Int64("user_id", id), zap.Int64("approver_id", middleware.CurrentUser(c).ID))
	Success(c, emp)
}

// ListLeaves GET /api/employees/:id/leaves
func (h *EmployeeHandler) ListLeaves(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	records, err := h.svc.Leaves(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"items": records})
}

// AddLeave POST /api/employees/:id/leaves
func (h *EmployeeHandler) AddLeave(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apiclient.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	record, err := h.svc.AddLeave(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, record)
}

// ListOvertimes GET /api/employees/:id/overtimes
func (h *EmployeeHandler) ListOvertimes(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	records, err := h.svc.Overtimes(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"items": records})
}

// AddOvertime POST /api/employees/:id/overtimes
func (h *EmployeeHandler) AddOvertime(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req apiclient.OvertimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	record, err := h.svc.AddOvertime(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	Created(c, record)
}
