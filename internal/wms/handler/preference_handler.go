package handler

import (
	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	base
	svc *service.PreferenceService
}

func NewPreferenceHandler(b base, svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{base: b, svc: svc}
}

// Get GET /api/preferences
func (h *PreferenceHandler) Get(c *gin.Context) {
	pref, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, pref)
}

// Update PUT /api/preferences
func (h *PreferenceHandler) Update(c *gin.Context) {
	var in service.PreferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	pref, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c).ID, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, pref)
}

// Reset DELETE /api/preferences
func (h *PreferenceHandler) Reset(c *gin.Context) {
	pref, err := h.svc.Reset(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, pref)
}
