package handler

import (
	"net/http"
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/config"
	"github.com/HuangKst/FYP-sub000/internal/middleware"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler 登录、注册、注销
type SessionHandler struct {
	base
	auth *service.AuthService
	mgr  *session.Manager
	cfg  config.SessionConfig
}

func NewSessionHandler(b base, auth *service.AuthService, mgr *session.Manager, cfg config.SessionConfig) *SessionHandler {
	return &SessionHandler{base: b, auth: auth, mgr: mgr, cfg: cfg}
}

// safeRedirect 只允许站内跳转
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") || target == middleware.LoginPath {
		return "/dashboard"
	}
	return target
}

// LoginPage GET /login
func (h *SessionHandler) LoginPage(c *gin.Context) {
	Success(c, gin.H{
		"page":     "login",
		"redirect": safeRedirect(c.Query("redirect")),
	})
}

// ForbiddenPage GET /403
func (h *SessionHandler) ForbiddenPage(c *gin.Context) {
	Error(c, http.StatusForbidden, CodeForbidden, "permission denied", gin.H{"page": "forbidden"})
}

// Login POST /api/session/login
func (h *SessionHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Redirect string `json:"redirect"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	sess, err := h.mgr.Begin(c.Request.Context(), result.Token, result.User)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("User logged in", zap.Int64("user_id", result.User.ID), zap.String("role", result.User.Role))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, sess.ID, int(h.cfg.TTL.Seconds()), "/", "", h.cfg.Secure, true)
	Success(c, gin.H{
		"user":     sess.User,
		"redirect": safeRedirect(req.Redirect),
	})
}

// Register POST /api/session/register
func (h *SessionHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request body")
		return
	}
	if err := h.auth.Register(c.Request.Context(), in); err != nil {
		h.fail(c, err)
		return
	}
	Created(c, gin.H{"status": "pending", "message": "registration submitted, waiting for approval"})
}

// Logout POST /api/session/logout
func (h *SessionHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(h.cfg.CookieName); err == nil {
		if err := h.mgr.End(c.Request.Context(), id); err != nil {
			h.logger.Warn("Failed to end session", zap.Error(err))
		}
	}
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.Secure, true)
	Success(c, gin.H{"redirect": middleware.LoginPath})
}
