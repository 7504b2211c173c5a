package handler

import (
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	base
	svc *service.StatsService
}

func NewStatsHandler(b base, svc *service.StatsService) *StatsHandler {
	return &StatsHandler{base: b, svc: svc}
}

// Dashboard GET /api/stats/dashboard
func (h *StatsHandler) Dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, d)
}

// Get GET /api/stats/:kind
func (h *StatsHandler) Get(c *gin.Context) {
	data, err := h.svc.Get(c.Request.Context(), c.Param("kind"))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, data)
}
