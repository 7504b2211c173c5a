package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// Client: 仓储 REST API 基础客户端
// 负责拼接地址、附加 Bearer token、解析统一响应 {success, msg, data}
// 各资源（订单、库存、客户、员工、统计）的方法分布在同包其他文件中
// =============================================================================

// Client 远端 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient 创建客户端；timeout 为 0 时不设置超时
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type tokenKey struct{}

// WithToken 将当前会话的 token 放入 context，之后每个请求都会带上 Authorization 头
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// envelope 远端统一响应结构
type envelope struct {
	Success *bool           `json:"success"`
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

// newRequest 构造请求并附加鉴权头
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("序列化请求体失败: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send 发起请求，传输层失败统一归为网络错误
func (c *Client) send(req *http.Request, path string) (*http.Response, []byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed",
			zap.String("method", req.Method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, nil, &Error{Kind: KindNetwork, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &Error{Kind: KindNetwork, Path: path, Err: err}
	}

	c.logger.Debug("API request",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, respBody, nil
}

// doRequest 执行 JSON 请求
// body: 请求体（nil 则不发送）
// result: data 字段反序列化目标（nil 则忽略）
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, result interface{}) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	resp, respBody, err := c.send(req, path)
	if err != nil {
		return err
	}
	return decodeEnvelope(path, resp.StatusCode, respBody, result)
}

// doDownload 下载二进制内容（PDF、Excel），失败时仍按统一响应解析错误信息
func (c *Client) doDownload(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, "", err
	}
	resp, respBody, err := c.send(req, path)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 300 {
		return nil, "", decodeEnvelope(path, resp.StatusCode, respBody, nil)
	}
	return respBody, resp.Header.Get("Content-Type"), nil
}

func decodeEnvelope(path string, status int, body []byte, result interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if status >= 300 {
			return &Error{Kind: KindServer, Status: status, Path: path, Msg: http.StatusText(status)}
		}
		return &Error{Kind: KindServer, Status: status, Path: path, Msg: "invalid response body", Err: err}
	}

	if status >= 300 || (env.Success != nil && !*env.Success) {
		msg := env.message()
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &Error{Kind: KindServer, Status: status, Path: path, Msg: msg}
	}

	if result == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return &Error{Kind: KindServer, Status: status, Path: path, Msg: "invalid response data", Err: err}
	}
	return nil
}

// Page 列表数据，兼容 data 直接为数组或 {items, total} 两种形式
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		p.Items = items
		p.Total = int64(len(items))
		return nil
	}

	var obj struct {
		Items []T   `json:"items"`
		Total int64 `json:"total"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	p.Items = obj.Items
	p.Total = obj.Total
	if p.Total == 0 {
		p.Total = int64(len(obj.Items))
	}
	return nil
}

// CollectPageSize CollectAll 每页拉取的条数
const CollectPageSize = 200

// maxCollectPages 防止远端 total 异常时无限翻页
const maxCollectPages = 500

// CollectAll 逐页拉取直到凑满 total 或遇到空页
func CollectAll[T any](ctx context.Context, fetch func(ctx context.Context, page, size int) (*Page[T], error)) ([]T, error) {
	all := []T{}
	for page := 1; page <= maxCollectPages; page++ {
		p, err := fetch(ctx, page, CollectPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if len(p.Items) == 0 || int64(len(all)) >= p.Total {
			break
		}
	}
	return all, nil
}

func setPaging(q url.Values, page, size int) {
	if page > 0 {
		q.Set("page", fmt.Sprint(page))
	}
	if size > 0 {
		q.Set("size", fmt.Sprint(size))
	}
}
