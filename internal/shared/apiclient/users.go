package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

// LoginResult 登录结果
type LoginResult struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// RegisterRequest 注册
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Login POST /users
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var result LoginResult
	if err := c.doRequest(ctx, http.MethodPost, "/users", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register POST /users?action=register，新用户处于 pending 状态等待管理员审批
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	q := url.Values{"action": []string{"register"}}
	return c.doRequest(ctx, http.MethodPost, "/users", q, req, nil)
}
