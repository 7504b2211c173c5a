package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/HuangKst/FYP-sub000/internal/config"
	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers 处理器集合
type Handlers struct {
	Session    *SessionHandler
	Page       *PageHandler
	Draft      *DraftHandler
	Order      *OrderHandler
	Inventory  *InventoryHandler
	Customer   *CustomerHandler
	Employee   *EmployeeHandler
	Stats      *StatsHandler
	Preference *PreferenceHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, mgr *session.Manager, pol *policy.Policy, cfg *config.Config, logger *zap.Logger) *Handlers {
	b := base{production: cfg.Server.Production(), logger: logger}
	return &Handlers{
		Session:    NewSessionHandler(b, svc.Auth, mgr, cfg.Session),
		Page:       NewPageHandler(b, svc, pol),
		Draft:      NewDraftHandler(b, svc.Draft),
		Order:      NewOrderHandler(b, svc.Order),
		Inventory:  NewInventoryHandler(b, svc.Inventory),
		Customer:   NewCustomerHandler(b, svc.Customer),
		Employee:   NewEmployeeHandler(b, svc.Employee),
		Stats:      NewStatsHandler(b, svc.Stats),
		Preference: NewPreferenceHandler(b, svc.Preference),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// 业务错误码
const (
	CodeBadRequest       = 10001
	CodeNotFound         = 10002
	CodeInvalidState     = 10004
	CodeNeedConfirmation = 10005
	CodeInsufficient     = 10006
	CodeSubmitting       = 10007
	CodeUnauthenticated  = 40100
	CodeForbidden        = 40300
	CodeInternal         = 50001
	CodeNetwork          = 50201
	CodeRemote           = 50202
)

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeBadRequest, message, nil)
}

// base 各处理器共用的错误输出
type base struct {
	production bool
	logger     *zap.Logger
}

// fail 把服务层错误映射为 HTTP 状态和业务码，消息统一经过 apiclient.Normalize
func (b base) fail(c *gin.Context, err error) {
	var insufficient *orderflow.InsufficientError
	switch {
	case errors.As(err, &insufficient):
		Error(c, http.StatusConflict, CodeInsufficient, "insufficient inventory", insufficient.Shortfalls)
		return
	case errors.Is(err, service.ErrConfirmationRequired):
		Error(c, http.StatusPreconditionRequired, CodeNeedConfirmation, "confirmation required", nil)
		return
	case errors.Is(err, service.ErrForbidden):
		Error(c, http.StatusForbidden, CodeForbidden, "permission denied", nil)
		return
	case errors.Is(err, orderflow.ErrAlreadySubmitting):
		Error(c, http.StatusConflict, CodeSubmitting, "order is already being submitted", nil)
		return
	case errors.Is(err, orderflow.ErrInvalidTransition):
		Error(c, http.StatusConflict, CodeInvalidState, "operation is not allowed in the current order state", nil)
		return
	case errors.Is(err, orderflow.ErrNoDraft):
		Error(c, http.StatusNotFound, CodeNotFound, "no order draft, start a new order first", nil)
		return
	case errors.Is(err, session.ErrNotAuthenticated):
		Error(c, http.StatusUnauthorized, CodeUnauthenticated, "login is required", nil)
		return
	}

	msg := apiclient.Normalize(err, b.production).Msg
	switch {
	case apiclient.IsKind(err, apiclient.KindValidation):
		BadRequest(c, msg)
	case apiclient.IsKind(err, apiclient.KindNetwork):
		b.logger.Warn("Remote API unreachable", zap.String("path", c.Request.URL.Path), zap.Error(err))
		Error(c, http.StatusBadGateway, CodeNetwork, msg, nil)
	case apiclient.IsKind(err, apiclient.KindServer):
		status := apiclient.StatusOf(err)
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		Error(c, status, CodeRemote, msg, nil)
	default:
		b.logger.Error("Unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, CodeInternal, msg, nil)
	}
}

// GetPagination 从请求获取分页参数
func GetPagination(c *gin.Context, defaultSize int) (page, pageSize int) {
	page = 1
	pageSize = defaultSize
	if pageSize <= 0 {
		pageSize = 20
	}

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// paramID 解析路径中的数字 ID
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// confirmed 破坏性操作需带 confirm=true
func confirmed(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("confirm"))
	return v
}
