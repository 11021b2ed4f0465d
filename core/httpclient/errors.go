package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 表示请求失败的分类，边界层据此映射用户提示。
type Kind string

const (
	KindBadRequest             Kind = "BAD_REQUEST"
	KindAuthenticationRequired Kind = "AUTHENTICATION_REQUIRED"
	KindAuthorizationDenied    Kind = "AUTHORIZATION_DENIED"
	KindNotFound               Kind = "NOT_FOUND"
	KindValidationFailed       Kind = "VALIDATION_FAILED"
	KindRateLimited            Kind = "RATE_LIMITED"
	KindServerFault            Kind = "SERVER_FAULT"
	KindNetworkUnavailable     Kind = "NETWORK_UNAVAILABLE"
	KindUnknown                Kind = "UNKNOWN"
)

// 各分类的本地化用户提示。未覆盖的分类回退到通用重试文案，
// 不把原始错误文本泄露给用户。
var userMessages = map[Kind]string{
	KindBadRequest:             "입력 내용을 확인해 주세요.",
	KindAuthenticationRequired: "로그인이 필요합니다.",
	KindAuthorizationDenied:    "이 작업을 수행할 권한이 없습니다.",
	KindNotFound:               "요청하신 정보를 찾을 수 없습니다.",
	KindValidationFailed:       "입력 내용을 확인해 주세요.",
	KindRateLimited:            "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
	KindServerFault:            "서버 오류가 발생했습니다. 잠시 후 다시 시도해 주세요.",
	KindNetworkUnavailable:     "네트워크 연결을 확인해 주세요.",
}

// GenericUserMessage 未分类错误的兜底提示。
const GenericUserMessage = "오류가 발생했습니다. 다시 시도해 주세요."

// APIError 表示一次请求的结构化失败，内部消息与用户提示分开保存。
type APIError struct {
	Kind        Kind
	Status      int
	Code        string              // 服务端返回的原始错误码
	Message     string              // 内部诊断消息
	UserMessage string              // 本地化用户提示
	Fields      map[string][]string // 校验失败的字段级消息
	Raw         error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api: [%s] %s", e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api: %s", e.Message)
	case e.Status != 0:
		return fmt.Sprintf("api: http 状态码 %d", e.Status)
	default:
		return "api: 未知错误"
	}
}

// Unwrap 允许 errors.Is/As 解构底层错误。
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Raw
}

// kindForStatus 按 HTTP 状态码归类。
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindAuthenticationRequired
	case status == http.StatusForbidden:
		return KindAuthorizationDenied
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnprocessableEntity:
		return KindValidationFailed
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= http.StatusInternalServerError:
		return KindServerFault
	default:
		return KindUnknown
	}
}

// errorResponse 是后端错误体的通用结构。
type errorResponse struct {
	Message string              `json:"message,omitempty"`
	Code    string              `json:"code,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// NewAPIError 按状态码和服务端错误体构造 APIError。
func NewAPIError(status int, code, message string, fields map[string][]string) *APIError {
	kind := kindForStatus(status)
	if message == "" {
		message = http.StatusText(status)
	}
	user, ok := userMessages[kind]
	if !ok {
		user = GenericUserMessage
	}
	return &APIError{
		Kind:        kind,
		Status:      status,
		Code:        code,
		Message:     message,
		UserMessage: user,
		Fields:      fields,
	}
}

// NewValidationError 构造客户端侧校验失败错误，不经过网络。
func NewValidationError(message string, fields map[string][]string) *APIError {
	return &APIError{
		Kind:        KindValidationFailed,
		Message:     message,
		UserMessage: userMessages[KindValidationFailed],
		Fields:      fields,
	}
}

// NetworkError 包装底层网络错误，便于区分可重试场景。
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("网络错误: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError 表示响应解码失败。
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("解码失败(status=%d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsKind 判断错误是否属于指定分类，网络错误归入 KindNetworkUnavailable。
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return kind == KindNetworkUnavailable
	}
	return false
}

// UserMessage 提取面向用户的本地化提示；未分类错误回退到通用文案。
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.UserMessage != "" {
		return apiErr.UserMessage
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return userMessages[KindNetworkUnavailable]
	}
	return GenericUserMessage
}
