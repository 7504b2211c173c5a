package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/shared/kvstore"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookie = "wms_session"

func setupGuard(t *testing.T) (*gin.Engine, *session.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mgr := session.NewManager(kvstore.NewMemoryStore(), time.Hour, nil)
	pol := policy.MustNew()

	r := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Username}) }
	r.GET("/dashboard", SessionAuth(mgr, cookie, ModePage), ok)
	r.GET("/admin/employees", SessionAuth(mgr, cookie, ModePage), RequireCapability(pol, policy.PageAdmin, ModePage), ok)
	r.DELETE("/api/orders/1", SessionAuth(mgr, cookie, ModeAction), RequireCapability(pol, policy.OrderDelete, ModeAction), ok)
	return r, mgr
}

func do(r *gin.Engine, method, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: cookie, Value: sessionID})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, mgr *session.Manager, role string) string {
	t.Helper()
	sess, err := mgr.Begin(context.Background(), "opaque", entity.User{ID: 1, Username: "u", Role: role})
	require.NoError(t, err)
	return sess.ID
}

func TestUnauthenticatedPageRedirectsToLogin(t *testing.T) {
	r, _ := setupGuard(t)
	w := do(r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard", w.Header().Get("Location"))
}

func TestUnauthenticatedActionIs401(t *testing.T) {
	r, _ := setupGuard(t)
	w := do(r, http.MethodDelete, "/api/orders/1", "stale-id")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "40100")
}

func TestEmployeeOnAdminPageRedirectsTo403(t *testing.T) {
	r, mgr := setupGuard(t)
	w := do(r, http.MethodGet, "/admin/employees", login(t, mgr, entity.RoleEmployee))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, ForbiddenPath, w.Header().Get("Location"))
}

func TestBossOnAdminPage(t *testing.T) {
	r, mgr := setupGuard(t)
	w := do(r, http.MethodGet, "/admin/employees", login(t, mgr, entity.RoleBoss))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEmployeeActionForbidden(t *testing.T) {
	r, mgr := setupGuard(t)
	w := do(r, http.MethodDelete, "/api/orders/1", login(t, mgr, entity.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "40300")
}

func TestRequestIDEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "rid-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "rid-1", w.Body.String())
}
