package service

import (
	"context"
	"strings"

	"github.com/HuangKst/FYP-sub000/internal/shared/apiclient"
	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
)

// AuthService 登录和注册，凭证由远端 API 校验
type AuthService struct {
	api *apiclient.Client
}

func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{api: api}
}

// Login 登录；待审批和已停用的账号不能进入系统
func (s *AuthService) Login(ctx context.Context, username, password string) (*apiclient.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apiclient.Validation("username and password are required")
	}
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	switch result.User.Status {
	case entity.UserStatusPending:
		return nil, apiclient.Validation("account is pending approval")
	case entity.UserStatusInactive:
		return nil, apiclient.Validation("account is disabled")
	}
	if result.Token == "" {
		return nil, &apiclient.Error{Kind: apiclient.KindServer, Path: "/users", Msg: "login response has no token"}
	}
	return result, nil
}

// RegisterInput 注册表单
type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
}

// Register 注册；两次密码不一致时不发请求
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return apiclient.Validation("username and password are required")
	}
	if in.Password != in.ConfirmPassword {
		return apiclient.Validation("passwords do not match")
	}
	return s.api.Register(ctx, apiclient.RegisterRequest{
		Username: in.Username,
		Password: in.Password,
		Name:     in.Name,
		Phone:    in.Phone,
	})
}
