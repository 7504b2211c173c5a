package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HuangKst/FYP-sub000/internal/config"
	"github.com/HuangKst/FYP-sub000/internal/shared/kvstore"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/HuangKst/FYP-sub000/internal/wms/orderflow"
	"github.com/HuangKst/FYP-sub000/internal/wms/policy"
	"github.com/HuangKst/FYP-sub000/internal/wms/service"
	"github.com/HuangKst/FYP-sub000/internal/wms/session"
	"github.com/HuangKst/FYP-sub000/internal/wms/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router *gin.Engine
	fake   *testutil.FakeAPI
	mgr    *session.Manager
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	pol := policy.MustNew()
	store := kvstore.NewMemoryStore()
	mgr := session.NewManager(store, time.Hour, zap.NewNop())

	svc := service.NewServices(service.Deps{
		API:    fake.Client(),
		Policy: pol,
		Drafts: orderflow.NewDraftStore(store, time.Hour),
	})
	cfg := &config.Config{
		Session: config.SessionConfig{CookieName: testutil.CookieName, TTL: time.Hour},
	}
	h := NewHandlers(svc, mgr, pol, cfg, zap.NewNop())

	r := testutil.SetupRouter()
	RegisterRoutes(r, h, mgr, pol, testutil.CookieName)
	return &testEnv{router: r, fake: fake, mgr: mgr}
}

func (e *testEnv) login(t *testing.T, id int64, role string) string {
	return testutil.SeedSession(t, e.mgr, id, role).ID
}

func TestPageWithoutSessionRedirectsToLogin(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/orders?page=2", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Forders%3Fpage%3D2", w.Header().Get("Location"))
}

func TestActionWithoutSessionIsUnauthorized(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/inventory", map[string]interface{}{"material": "201"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.EqualValues(t, CodeUnauthenticated, testutil.ParseResponse(w)["code"])
	assert.Zero(t, env.fake.TotalCalls())
}

func TestUnknownSessionCookieIsCleared(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/api/session", nil, "missing")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, testutil.CookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAdminPagesByRole(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodGet, "/employees", []interface{}{})

	w := testutil.DoRequest(env.router, http.MethodGet, "/admin/employees", nil, env.login(t, 10, entity.RoleEmployee))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/403", w.Header().Get("Location"))

	w = testutil.DoRequest(env.router, http.MethodGet, "/admin/employees", nil, env.login(t, 2, entity.RoleBoss))
	assert.Equal(t, http.StatusOK, w.Code)

	// 审批页只有 admin 可见
	w = testutil.DoRequest(env.router, http.MethodGet, "/admin/users/pending", nil, env.login(t, 2, entity.RoleBoss))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/403", w.Header().Get("Location"))
}

func TestCurrentSessionCapabilities(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/api/session", nil, env.login(t, 10, entity.RoleEmployee))
	require.Equal(t, http.StatusOK, w.Code)

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	caps := data["capabilities"].([]interface{})
	assert.Contains(t, caps, policy.OrderCreate)
	assert.NotContains(t, caps, policy.OrderDelete)
	for _, item := range data["nav"].([]interface{}) {
		assert.NotEqual(t, "/admin/employees", item.(map[string]interface{})["path"])
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodPost, "/users", map[string]interface{}{
		"token": testutil.GenerateTestToken(2, entity.RoleBoss, time.Hour),
		"user":  map[string]interface{}{"id": 2, "username": "boss", "role": "boss", "status": "active"},
	})

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/session/login", map[string]string{
		"username": "boss", "password": "secret", "redirect": "/inventory",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, "/inventory", data["redirect"])

	var sid string
	for _, c := range w.Result().Cookies() {
		if c.Name == testutil.CookieName {
			sid = c.Value
			assert.True(t, c.HttpOnly)
		}
	}
	require.NotEmpty(t, sid)

	w = testutil.DoRequest(env.router, http.MethodGet, "/api/session", nil, sid)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(env.router, http.MethodPost, "/api/session/logout", nil, sid)
	assert.Equal(t, http.StatusOK, w.Code)
	w = testutil.DoRequest(env.router, http.MethodGet, "/api/session", nil, sid)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsOffsiteRedirect(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodPost, "/users", map[string]interface{}{
		"token": "opaque-token",
		"user":  map[string]interface{}{"id": 10, "username": "zhang", "role": "employee", "status": "active"},
	})

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/session/login", map[string]string{
		"username": "zhang", "password": "secret", "redirect": "//evil.example.com",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/dashboard", testutil.ParseResponse(w)["data"].(map[string]interface{})["redirect"])
}

func TestLoginPendingAccount(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodPost, "/users", map[string]interface{}{
		"token": "t",
		"user":  map[string]interface{}{"id": 11, "username": "new", "role": "employee", "status": "pending"},
	})

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/session/login", map[string]string{
		"username": "new", "password": "secret",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "account is pending approval", testutil.ParseResponse(w)["message"])
	assert.Empty(t, w.Result().Cookies())
}

func TestDeleteOrderPermissionBeforeConfirmation(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodDelete, "/orders/5", nil)

	w := testutil.DoRequest(env.router, http.MethodDelete, "/api/orders/5", nil, env.login(t, 10, entity.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, CodeForbidden, testutil.ParseResponse(w)["code"])

	boss := env.login(t, 2, entity.RoleBoss)
	w = testutil.DoRequest(env.router, http.MethodDelete, "/api/orders/5", nil, boss)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.EqualValues(t, CodeNeedConfirmation, testutil.ParseResponse(w)["code"])
	assert.Zero(t, env.fake.TotalCalls())

	w = testutil.DoRequest(env.router, http.MethodDelete, "/api/orders/5?confirm=true", nil, boss)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.fake.Calls(http.MethodDelete, "/orders/5"))
}

func TestConvertQuoteToSales(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodGet, "/orders/7", map[string]interface{}{"id": 7, "order_type": "QUOTE", "user_id": 10})
	env.fake.Reply(http.MethodPut, "/orders/7", map[string]interface{}{"id": 7, "order_type": "SALES", "user_id": 10})
	sid := env.login(t, 10, entity.RoleEmployee)

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/orders/7/convert", nil, sid)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)

	w = testutil.DoRequest(env.router, http.MethodPost, "/api/orders/7/convert?confirm=true", nil, sid)
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, orderflow.StateSalesUnpaidPending, data["state"])

	body := env.fake.LastBody(http.MethodPut, "/orders/7")
	assert.Equal(t, "SALES", body["order_type"])
	assert.Equal(t, false, body["is_paid"])
	assert.Equal(t, false, body["is_completed"])
}

func TestDraftSubmitReportsShortfall(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodGet, "/inventory/materials", []string{"2mm"})
	env.fake.Reply(http.MethodGet, "/inventory", []map[string]interface{}{
		{"id": 1, "material": "201", "specification": "2mm", "quantity": 10},
	})
	sid := env.login(t, 10, entity.RoleEmployee)

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft", map[string]string{"order_type": "SALES"}, sid)
	require.Equal(t, http.StatusCreated, w.Code)

	w = testutil.DoRequest(env.router, http.MethodPatch, "/api/orders/draft", map[string]interface{}{"customer_id": 4}, sid)
	require.Equal(t, http.StatusOK, w.Code)

	for _, update := range []map[string]interface{}{
		{"field": "material", "value": "201"},
		{"field": "specification", "value": "2mm"},
		{"field": "quantity", "value": 15},
		{"field": "unit_price", "value": "6"},
	} {
		w = testutil.DoRequest(env.router, http.MethodPatch, "/api/orders/draft/items/0", update, sid)
		require.Equal(t, http.StatusOK, w.Code, update)
	}

	w = testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft/submit", nil, sid)
	require.Equal(t, http.StatusConflict, w.Code)
	resp := testutil.ParseResponse(w)
	assert.EqualValues(t, CodeInsufficient, resp["code"])
	shortfalls := resp["data"].([]interface{})
	require.Len(t, shortfalls, 1)
	assert.Equal(t, "5", shortfalls[0].(map[string]interface{})["missing"])
	assert.Zero(t, env.fake.Calls(http.MethodPost, "/orders"))

	// 未通过检查不能确认
	w = testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft/confirm", nil, sid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDraftConfirmCreatesOrder(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Reply(http.MethodGet, "/inventory/materials", []string{"2mm"})
	env.fake.Reply(http.MethodGet, "/inventory", []interface{}{})
	env.fake.Reply(http.MethodPost, "/orders", map[string]interface{}{"id": 42, "order_type": "QUOTE"})
	sid := env.login(t, 10, entity.RoleEmployee)

	testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft", map[string]string{"order_type": "QUOTE"}, sid)
	testutil.DoRequest(env.router, http.MethodPatch, "/api/orders/draft", map[string]interface{}{"customer_id": 4}, sid)
	for _, update := range []map[string]interface{}{
		{"field": "material", "value": "201"},
		{"field": "specification", "value": "2mm"},
		{"field": "quantity", "value": "3"},
		{"field": "unit_price", "value": "2.5"},
	} {
		testutil.DoRequest(env.router, http.MethodPatch, "/api/orders/draft/items/0", update, sid)
	}

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft/submit", nil, sid)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft/confirm", nil, sid)
	require.Equal(t, http.StatusCreated, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, "/orders/42", data["redirect"])

	w = testutil.DoRequest(env.router, http.MethodGet, "/api/orders/draft", nil, sid)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftItemUnknownField(t *testing.T) {
	env := setupTestEnv(t)
	sid := env.login(t, 10, entity.RoleEmployee)
	testutil.DoRequest(env.router, http.MethodPost, "/api/orders/draft", map[string]string{"order_type": "QUOTE"}, sid)

	w := testutil.DoRequest(env.router, http.MethodPatch, "/api/orders/draft/items/0", map[string]interface{}{"field": "colour", "value": "red"}, sid)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.DoRequest(env.router, http.MethodPatch, "/api/orders/draft/items/x", map[string]interface{}{"field": "unit"}, sid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoteFailureIsBadGateway(t *testing.T) {
	env := setupTestEnv(t)
	env.fake.Fail(http.MethodPost, "/customers", http.StatusInternalServerError, "db down")

	w := testutil.DoRequest(env.router, http.MethodPost, "/api/customers", map[string]string{"name": "ACME"}, env.login(t, 10, entity.RoleEmployee))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	resp := testutil.ParseResponse(w)
	assert.EqualValues(t, CodeRemote, resp["code"])
	assert.Equal(t, "db down", resp["message"])
}

func TestInventoryImportPreview(t *testing.T) {
	env := setupTestEnv(t)
	sid := env.login(t, 2, entity.RoleBoss)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "stock.csv")
	require.NoError(t, err)
	part.Write([]byte("material,specification,quantity,density\n201,2mm,15,7.93\n304,3mm,8,\n"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/api/inventory/import?preview=true", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: testutil.CookieName, Value: sid})
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Len(t, data["items"], 2)
	assert.Zero(t, env.fake.TotalCalls())
}

func TestInventoryImportForbiddenForEmployee(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/api/inventory/import/template", nil, env.login(t, 10, entity.RoleEmployee))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.DoRequest(env.router, http.MethodGet, "/api/inventory/import/template", nil, env.login(t, 2, entity.RoleBoss))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
}

func TestStatsUnknownKind(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/api/stats/weather", nil, env.login(t, 10, entity.RoleEmployee))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.fake.TotalCalls())
}

func TestPreferencesDefaultWithoutStorage(t *testing.T) {
	env := setupTestEnv(t)

	w := testutil.DoRequest(env.router, http.MethodGet, "/api/preferences", nil, env.login(t, 10, entity.RoleEmployee))
	require.Equal(t, http.StatusOK, w.Code)
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	assert.Equal(t, entity.InventoryViewList, data["inventory_view"])
	assert.EqualValues(t, 20, data["page_size"])
}

func TestGetPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"page=3&page_size=50", 3, 50},
		{"page=-1&page_size=500", 1, 20},
		{"page=abc", 1, 20},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
		page, size := GetPagination(c, 20)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.pageSize, size, tt.query)
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"/orders?page=2", "/orders?page=2"},
		{"", "/dashboard"},
		{"https://evil.example.com", "/dashboard"},
		{"//evil.example.com", "/dashboard"},
		{`/\evil.example.com`, "/dashboard"},
		{"/login", "/dashboard"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirect(tt.target))
		})
	}
}
