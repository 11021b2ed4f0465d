package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escape-ship/shop-desktop/core/model"
)

// signedToken 生成一枚可解析的测试令牌。签名密钥无关紧要，
// 客户端只读负载不验签。
func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err, "生成测试令牌失败")
	return token
}

func TestTokenExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		expired bool
	}{
		{
			name:    "已过期",
			token:   signedToken(t, jwt.MapClaims{"exp": now.Add(-60 * time.Second).Unix()}),
			expired: true,
		},
		{
			name:    "虽未过期但落在安全余量内",
			token:   signedToken(t, jwt.MapClaims{"exp": now.Add(20 * time.Second).Unix()}),
			expired: true,
		},
		{
			name:    "距过期还有充足时间",
			token:   signedToken(t, jwt.MapClaims{"exp": now.Add(120 * time.Second).Unix()}),
			expired: false,
		},
		{
			name:    "缺少 exp 声明",
			token:   signedToken(t, jwt.MapClaims{"sub": "u-1"}),
			expired: true,
		},
		{
			name:    "无法解析的令牌",
			token:   "not-a-jwt",
			expired: true,
		},
		{
			name:    "空令牌",
			token:   "",
			expired: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, TokenExpired(tt.token, now))
		})
	}
}

func TestTokenExpiredBufferBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// 恰好等于 now+buffer 时按过期处理，严格大于才算有效。
	atBoundary := signedToken(t, jwt.MapClaims{"exp": now.Add(ExpiryBuffer).Unix()})
	assert.True(t, TokenExpired(atBoundary, now))

	justBeyond := signedToken(t, jwt.MapClaims{"exp": now.Add(ExpiryBuffer + time.Second).Unix()})
	assert.False(t, TokenExpired(justBeyond, now))
}

func TestUserFromToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":      "u-42",
		"email":    "user@example.com",
		"name":     "홍길동",
		"role":     "admin",
		"provider": "kakao",
	})

	user, err := UserFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-42", user.ID)
	assert.Equal(t, "user@example.com", user.Email)
	assert.Equal(t, "홍길동", user.Name)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Equal(t, model.ProviderKakao, user.Provider)
}

func TestUserFromTokenDefaults(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"user_id": "u-7"})

	user, err := UserFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-7", user.ID, "缺少 sub 时回退到 user_id")
	assert.Equal(t, model.RoleUser, user.Role, "缺少 role 时默认普通用户")
}

func TestUserFromTokenUndecodable(t *testing.T) {
	_, err := UserFromToken("garbage")
	assert.Error(t, err)
}
