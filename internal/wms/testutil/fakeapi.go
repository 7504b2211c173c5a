package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
)

// RecordedRequest 远端收到的请求
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// FakeAPI 模拟仓储 REST API，按 "METHOD /path" 注册响应
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []RecordedRequest
}

func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{routes: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	h, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		WriteEnvelope(w, http.StatusNotFound, false, "not found: "+key, nil)
		return
	}
	h(w, r)
}

// Client 指向假服务的客户端
func (f *FakeAPI) Client() *apiclient.Client {
	return apiclient.NewClient(f.Server.URL, 0, nil)
}

func (f *FakeAPI) Handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

// Reply 注册成功响应
func (f *FakeAPI) Reply(method, path string, data interface{}) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteEnvelope(w, http.StatusOK, true, "success", data)
	})
}

// Fail 注册失败响应
func (f *FakeAPI) Fail(method, path string, status int, msg string) {
	f.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		WriteEnvelope(w, status, false, msg, nil)
	})
}

// Calls 某个接口被调用的次数
func (f *FakeAPI) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// TotalCalls 全部请求数
func (f *FakeAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Last 某个接口最近一次请求
func (f *FakeAPI) Last(method, path string) (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method && f.requests[i].Path == path {
			return f.requests[i], true
		}
	}
	return RecordedRequest{}, false
}

// LastBody 解析最近一次请求体
func (f *FakeAPI) LastBody(method, path string) map[string]interface{} {
	req, ok := f.Last(method, path)
	if !ok || len(req.Body) == 0 {
		return nil
	}
	var body map[string]interface{}
	json.Unmarshal(req.Body, &body)
	return body
}

// WriteEnvelope 写远端统一响应
func WriteEnvelope(w http.ResponseWriter, status int, success bool, msg string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"msg":     msg,
		"data":    data,
	})
}
