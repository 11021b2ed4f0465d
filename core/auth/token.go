package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	coreerrors "github.com/escape-ship/shop-desktop/core/errors"
	"github.com/escape-ship/shop-desktop/core/model"
)

// ExpiryBuffer 过期判断的安全余量，避免发出注定失败的请求。
const ExpiryBuffer = 30 * time.Second

// ErrTokenUndecodable 标记访问令牌负载无法解析。
var ErrTokenUndecodable = coreerrors.New(coreerrors.ErrCodeInvalidState, "auth: 令牌负载无法解析")

// DecodeClaims 仅解析访问令牌负载，不做签名校验。
// 解析结果只用于读取过期时间等提示信息，绝不能作为鉴权依据，
// 实际访问控制由后端校验。
func DecodeClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, coreerrors.Wrap(coreerrors.ErrCodeInvalidState, "auth: 令牌负载无法解析", err)
	}
	return claims, nil
}

// TokenExpired 带 30 秒余量判断访问令牌是否过期。
// 解析失败或缺少 exp 声明时按已过期处理（fail-closed）。
func TokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims, err := DecodeClaims(token)
	if err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return !exp.Time.After(now.Add(ExpiryBuffer))
}

// UserFromToken 从访问令牌负载还原用户信息缓存。
// 字段缺失时保持零值，不视为错误。
func UserFromToken(token string) (*model.User, error) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return nil, err
	}
	user := &model.User{Role: model.RoleUser}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		user.ID = sub
	} else if id, ok := claims["user_id"].(string); ok {
		user.ID = id
	}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		user.Name = name
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		user.Role = model.Role(role)
	}
	if provider, ok := claims["provider"].(string); ok && provider != "" {
		user.Provider = model.Provider(provider)
	}
	return user, nil
}
