package shopapi

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/escape-ship/shop-desktop/core/auth"
	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail 校验邮箱格式。
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// minPasswordLen 注册密码的最低长度要求。
const minPasswordLen = 8

// Login 邮箱密码登录。入参先在本地校验，不合法时不发请求。
// 返回的令牌对由调用方交给会话管理器持久化。
func (c *Client) Login(ctx context.Context, creds LoginRequest) (*LoginResponse, error) {
	fields := map[string][]string{}
	if creds.Email == "" {
		fields["email"] = append(fields["email"], "이메일을 입력해 주세요.")
	} else if !ValidateEmail(creds.Email) {
		fields["email"] = append(fields["email"], "올바른 이메일 형식이 아닙니다.")
	}
	if creds.Password == "" {
		fields["password"] = append(fields["password"], "비밀번호를 입력해 주세요.")
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 登录入参校验失败", fields)
	}

	var rsp LoginResponse
	if err := c.postJSON(ctx, pathLogin, creds, &rsp); err != nil {
		return nil, localizeAuthError(err)
	}
	return &rsp, nil
}

// Register 注册新账号。邮箱格式与密码强度在本地先行校验。
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	fields := map[string][]string{}
	if req.Email == "" {
		fields["email"] = append(fields["email"], "이메일을 입력해 주세요.")
	} else if !ValidateEmail(req.Email) {
		fields["email"] = append(fields["email"], "올바른 이메일 형식이 아닙니다.")
	}
	if len(req.Password) < minPasswordLen {
		fields["password"] = append(fields["password"], "비밀번호는 8자 이상이어야 합니다.")
	}
	if len(fields) > 0 {
		return nil, httpclient.NewValidationError("shopapi: 注册入参校验失败", fields)
	}

	var rsp RegisterResponse
	if err := c.postJSON(ctx, pathRegister, req, &rsp); err != nil {
		return nil, localizeAuthError(err)
	}
	return &rsp, nil
}

// Refresh 用刷新令牌换取新令牌对。调用方负责回写存储；
// 常规的 401 透明刷新走 auth.APIRefresher，不经过本方法。
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	if refreshToken == "" {
		return nil, auth.ErrNoRefreshToken
	}
	var rsp RefreshResponse
	if err := c.postJSON(ctx, pathRefresh, RefreshRequest{RefreshToken: refreshToken}, &rsp); err != nil {
		return nil, err
	}
	pair := auth.TokenPair{AccessToken: rsp.AccessToken, RefreshToken: rsp.RefreshToken}
	if !pair.Valid() {
		return nil, auth.ErrRefreshResponseInvalid
	}
	return &pair, nil
}

// KakaoLoginURL 获取 Kakao 登录入口地址。
func (c *Client) KakaoLoginURL(ctx context.Context) (string, error) {
	var rsp KakaoLoginURLResponse
	if err := c.get(ctx, pathKakaoLogin, nil, &rsp); err != nil {
		return "", err
	}
	return rsp.LoginURL, nil
}

// KakaoCallback 用授权码完成 Kakao OAuth 回调，换取令牌对与用户信息。
func (c *Client) KakaoCallback(ctx context.Context, code string) (*KakaoCallbackResponse, error) {
	if code == "" {
		return nil, httpclient.NewValidationError("shopapi: 缺少授权码", map[string][]string{
			"code": {"인증 코드가 필요합니다."},
		})
	}
	var rsp KakaoCallbackResponse
	if err := c.postJSON(ctx, pathKakaoCallback, KakaoCallbackRequest{Code: code}, &rsp); err != nil {
		return nil, localizeAuthError(err)
	}
	return &rsp, nil
}

// ParseKakaoUser 解析回调返回的 user_info_json。
// 解析失败返回零值用户，不向上抛错。
func ParseKakaoUser(userInfoJSON string) model.KakaoUser {
	var user model.KakaoUser
	if err := json.Unmarshal([]byte(userInfoJSON), &user); err != nil {
		return model.KakaoUser{}
	}
	return user
}
