package apiclient

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind int

const (
	// KindNetwork 没有拿到响应（连接失败、读取中断）
	KindNetwork Kind = iota + 1
	// KindServer 服务端返回 success=false 或非 2xx
	KindServer
	// KindValidation 客户端校验失败，不发起请求
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// Error API 调用错误
type Error struct {
	Kind   Kind
	Status int
	Path   string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error (path=%s): %v", e.Path, e.Err)
	case KindServer:
		return fmt.Sprintf("api error[%d]: %s (path=%s)", e.Status, e.Msg, e.Path)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 构造客户端校验错误
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// IsKind 判断错误分类
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// StatusOf 返回远端 HTTP 状态码，没有时为 0
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// 前端展示用的通用提示
const (
	MsgNetwork = "network error, please check your connection and retry"
	MsgGeneric = "request failed, please try again later"
)

// Result 归一化结果，调用方只看 Success 分支
type Result struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
}

// Normalize 把任意错误转换为 {success, msg}
// production 为 true 时服务端错误只给通用提示，避免泄露内部信息
func Normalize(err error, production bool) Result {
	if err == nil {
		return Result{Success: true, Msg: "success"}
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		if production {
			return Result{Msg: MsgGeneric}
		}
		return Result{Msg: err.Error()}
	}

	switch apiErr.Kind {
	case KindNetwork:
		return Result{Msg: MsgNetwork}
	case KindValidation:
		return Result{Msg: apiErr.Msg}
	default:
		if production {
			return Result{Msg: MsgGeneric}
		}
		return Result{Msg: apiErr.Msg}
	}
}
