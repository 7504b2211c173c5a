package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mode 守卫对页面和接口的处理方式不同：页面重定向，接口返回 JSON
type Mode int

const (
	ModePage Mode = iota
	ModeAction
)

const (
	LoginPath     = "/login"
	ForbiddenPath = "/403"

	sessionKey = "session"
)

// Logger 日志中间件
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString("request_id")),
		}

		if userID := c.GetInt64("user_id"); userID != 0 {
			fields = append(fields, zap.Int64("user_id", userID))
		}

		if status >= 500 {
			logger.Error("Server error", fields...)
		} else if status >= 400 {
			logger.Warn("Client error", fields...)
		} else {
			logger.Info("Request", fields...)
		}
	}
}

// CORS 跨域中间件；会话依赖 cookie，回显 Origin 以允许携带凭证
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestID 请求ID中间件
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.Request.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// SessionAuth 恢复会话；未登录时页面跳转登录页，接口返回 401
func SessionAuth(mgr *session.Manager, cookieName string, mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)
		sess, err := mgr.Restore(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotAuthenticated) {
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    50001,
					"success": false,
					"message": "Failed to load session",
				})
				c.Abort()
				return
			}
			if id != "" {
				c.SetCookie(cookieName, "", -1, "/", "", false, true)
			}
			if mode == ModePage {
				target := LoginPath + "?redirect=" + url.QueryEscape(c.Request.URL.RequestURI())
				c.Redirect(http.StatusFound, target)
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    40100,
				"success": false,
				"message": "Login is required",
			})
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set("user_id", sess.User.ID)
		c.Set("role", sess.User.Role)
		c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), sess.Token))
		c.Next()
	}
}

// RequireCapability 能力检查；无权限时页面跳转 /403，接口返回 403
func RequireCapability(pol *policy.Policy, capability string, mode Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pol.Can(c.GetString("role"), capability) {
			c.Next()
			return
		}
		if mode == ModePage {
			c.Redirect(http.StatusFound, ForbiddenPath)
			c.Abort()
			return
		}
		c.JSON(http.StatusForbidden, gin.H{
			"code":    40300,
			"success": false,
			"message": "Permission denied: " + capability,
		})
		c.Abort()
	}
}

// CurrentSession 当前请求的会话，仅在 SessionAuth 之后有效
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// CurrentUser 当前登录用户
func CurrentUser(c *gin.Context) entity.User {
	if sess := CurrentSession(c); sess != nil {
		return sess.User
	}
	return entity.User{}
}
