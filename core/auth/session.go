package auth

import "github.com/escape-ship/shop-desktop/core/model"

// TokenPair 持有访问令牌与刷新令牌。
// 两个字段必须同时存在才视为有效会话，残缺的令牌对按无会话处理。
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Valid 判断令牌对是否完整。
func (p TokenPair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// State 会话状态机的当前状态。
type State int

const (
	// StateLoading 应用启动后尚未完成持久化令牌检查。
	StateLoading State = iota
	// StateUnauthenticated 无有效会话。
	StateUnauthenticated
	// StateAuthenticated 持有未过期的令牌对。
	StateAuthenticated
)

// String 返回状态名。
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot 是会话状态的只读投影，供 UI 层消费。
type Snapshot struct {
	User            *model.User
	State           State
	IsAuthenticated bool
	IsLoading       bool
	Err             string
	AccessToken     string
	RefreshToken    string
}
