package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 0, nil)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, 200, map[string]interface{}{"success": true, "data": []string{"201", "304"}})
	})

	materials, err := c.ListMaterials(WithToken(context.Background(), "tok-123"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, []string{"201", "304"}, materials)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, 200, map[string]interface{}{"success": true})
	})
	require.NoError(t, c.DeleteOrder(context.Background(), 3))
}

func TestClientServerFailureKeepsMessage(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]interface{}{"success": false, "msg": "customer not found"})
	})

	_, err := c.GetCustomer(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "customer not found", apiErr.Msg)
	assert.Equal(t, "/customers/9", apiErr.Path)
}

func TestClientNon2xxWithoutEnvelope(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.DashboardStats(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, 0, nil)
	_, err := c.ListOrders(context.Background(), OrderListParams{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, MsgNetwork, Normalize(err, false).Msg)
}

func TestListOrdersQueryAndPageShapes(t *testing.T) {
	var gotQuery string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, 200, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"items": []map[string]interface{}{{"id": 1, "order_number": "SO-001", "order_type": "SALES"}},
				"total": 41,
			},
		})
	})

	page, err := c.ListOrders(context.Background(), OrderListParams{OrderNumber: "SO-0", OrderType: entity.OrderTypeSales, Page: 2, Size: 20})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "order_number=SO-0")
	assert.Contains(t, gotQuery, "order_type=SALES")
	assert.Contains(t, gotQuery, "page=2")
	assert.EqualValues(t, 41, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "SO-001", page.Items[0].OrderNumber)
}

func TestPageAcceptsBareArray(t *testing.T) {
	var page Page[entity.Customer]
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"A"},{"id":2,"name":"B"}]`), &page))
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 2, page.Total)
}

func TestUpdateOrderStatusSendsOnlySetFields(t *testing.T) {
	var body map[string]interface{}
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/orders/7", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, map[string]interface{}{"success": true, "data": map[string]interface{}{"id": 7, "is_paid": true}})
	})

	paid := true
	order, err := c.UpdateOrderStatus(context.Background(), 7, OrderStatusRequest{IsPaid: &paid})
	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.Equal(t, map[string]interface{}{"is_paid": true}, body)
}

func TestOrderPDFDownload(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4"))
	})

	data, contentType, err := c.OrderPDF(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestRegisterUsesActionQuery(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "register", r.URL.Query().Get("action"))
		writeJSON(w, 200, map[string]interface{}{"success": true})
	})
	require.NoError(t, c.Register(context.Background(), RegisterRequest{Username: "li", Password: "pw"}))
}

func TestStatsRejectsUnknownKind(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 0, nil)
	_, err := c.Stats(context.Background(), "weather")
	assert.True(t, IsKind(err, KindValidation))
}

func TestNormalize(t *testing.T) {
	serverErr := &Error{Kind: KindServer, Status: 400, Msg: "duplicate order number"}

	assert.Equal(t, Result{Success: true, Msg: "success"}, Normalize(nil, true))
	assert.Equal(t, "duplicate order number", Normalize(serverErr, false).Msg)
	assert.Equal(t, MsgGeneric, Normalize(serverErr, true).Msg)
	assert.Equal(t, MsgNetwork, Normalize(&Error{Kind: KindNetwork}, true).Msg)
	assert.Equal(t, "passwords do not match", Normalize(Validation("passwords do not match"), true).Msg)
	assert.Equal(t, MsgGeneric, Normalize(errors.New("boom"), true).Msg)
	assert.False(t, Normalize(serverErr, false).Success)
}
