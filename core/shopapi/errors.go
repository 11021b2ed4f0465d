package shopapi

import (
	"errors"

	"github.com/escape-ship/shop-desktop/core/httpclient"
)

// 常见认证错误的服务端消息到本地化提示的映射。
// 命中则替换 APIError 的用户提示，未命中保留分类默认文案。
var authUserMessages = map[string]string{
	"Invalid credentials":  "이메일 또는 비밀번호가 올바르지 않습니다.",
	"User not found":       "등록되지 않은 이메일입니다.",
	"Password incorrect":   "비밀번호가 올바르지 않습니다.",
	"Email already exists": "이미 등록된 이메일입니다.",
	"Invalid email format": "올바른 이메일 형식이 아닙니다.",
	"Password too weak":    "비밀번호는 8자 이상이어야 합니다.",
	"Account locked":       "계정이 잠겨있습니다. 고객센터에 문의하세요.",
	"Email not verified":   "이메일 인증이 필요합니다.",
}

// localizeAuthError 把认证接口已知的服务端消息换成对应的本地化提示。
func localizeAuthError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if msg, ok := authUserMessages[apiErr.Message]; ok {
		apiErr.UserMessage = msg
	}
	return err
}
