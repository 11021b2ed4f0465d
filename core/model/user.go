package model

import "time"

// Role 用户角色。
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Provider 登录渠道。
type Provider string

const (
	ProviderLocal Provider = "local"
	ProviderKakao Provider = "kakao"
)

// User 描述登录用户信息。用户信息只是展示缓存，
// 鉴权有效性以令牌本身为准。
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Provider  Provider  `json:"provider,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsAdmin 判断是否为管理员。
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// KakaoUser 描述 Kakao OAuth 回调返回的用户信息。
type KakaoUser struct {
	ID           string `json:"id"`
	Nickname     string `json:"nickname,omitempty"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}
