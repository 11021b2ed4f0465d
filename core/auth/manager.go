package auth

import (
	"context"
	"sync"
	"time"

	coreerrors "github.com/escape-ship/shop-desktop/core/errors"
	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/model"
	"github.com/escape-ship/shop-desktop/core/store"
)

var (
	// ErrTokenStoreNil 在未注入存储时返回。
	ErrTokenStoreNil = coreerrors.New(coreerrors.ErrCodeInvalidConfig, "auth: TokenStore 未设置")
	// ErrInvalidTokenPair 在登录时令牌对残缺返回。
	ErrInvalidTokenPair = coreerrors.New(coreerrors.ErrCodeInvalidArgument, "auth: 令牌对不完整")
	// ErrRefresherNil 需要刷新但未配置刷新器时返回。
	ErrRefresherNil = coreerrors.New(coreerrors.ErrCodeInvalidConfig, "auth: 未配置刷新器")
	// ErrNotAuthenticated 在无会话时执行需要会话的操作返回。
	ErrNotAuthenticated = coreerrors.New(coreerrors.ErrCodeUnauthenticated, "auth: 当前没有有效会话")
)

// Manager 维护本客户端唯一的权威会话状态：
// 持久化令牌对、内存中的状态投影与用户信息缓存。
// 状态机 Loading → {Authenticated, Unauthenticated}，
// 登出、检测到过期、刷新失败都会回到 Unauthenticated。
type Manager struct {
	mu        sync.RWMutex
	store     store.TokenStore[TokenPair]
	refresher Refresher
	state     State
	tokens    TokenPair
	user      *model.User
	lastErr   string
	now       func() time.Time
	logger    httpclient.Logger
}

// ManagerOption 自定义 Manager。
type ManagerOption func(*Manager)

// WithRefresher 注入刷新器。
func WithRefresher(r Refresher) ManagerOption {
	return func(m *Manager) {
		m.refresher = r
	}
}

// WithLogger 注入日志。
func WithLogger(logger httpclient.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithNow 替换时间来源，便于测试。
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager 创建会话管理器，初始状态为 Loading，调用 Init 完成启动检查。
func NewManager(tokenStore store.TokenStore[TokenPair], opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  tokenStore,
		state:  StateLoading,
		now:    time.Now,
		logger: httpclient.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = httpclient.NopLogger{}
	}
	return m
}

// Init 从持久化存储恢复会话并离开 Loading 状态。
// 找到未过期的完整令牌对则进入 Authenticated，否则清理残留并进入
// Unauthenticated。存储读取失败一律按无会话处理，不向上抛错。
func (m *Manager) Init() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	pair, ok := m.loadTokens()
	if ok && !TokenExpired(pair.AccessToken, m.now()) {
		m.tokens = pair
		m.state = StateAuthenticated
		if user, err := UserFromToken(pair.AccessToken); err == nil {
			m.user = user
		}
	} else {
		if ok {
			// 过期的持久化令牌没有保留价值，顺带清理。
			if err := m.clearStore(); err != nil {
				m.logger.Errorf("auth: 清理过期令牌失败: %v", err)
			}
		}
		m.resetLocked()
	}
	return m.snapshotLocked()
}

// Tokens 返回当前会话的令牌对；无有效会话时第二个返回值为 false。
func (m *Manager) Tokens() (TokenPair, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.tokens.Valid() {
		return TokenPair{}, false
	}
	return m.tokens, true
}

// SetTokens 持久化并缓存新的令牌对，常用于刷新后回写。
func (m *Manager) SetTokens(pair TokenPair) error {
	if !pair.Valid() {
		return ErrInvalidTokenPair
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return ErrTokenStoreNil
	}
	if err := m.store.SaveTokens(pair); err != nil {
		return err
	}
	m.tokens = pair
	m.state = StateAuthenticated
	return nil
}

// ClearTokens 删除持久化令牌并清空内存缓存。
func (m *Manager) ClearTokens() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = TokenPair{}
	return m.clearStore()
}

// Login 持久化令牌并把状态机切到 Authenticated。
// user 为空时尽量从访问令牌负载还原用户缓存。
func (m *Manager) Login(pair TokenPair, user *model.User) error {
	if !pair.Valid() {
		return ErrInvalidTokenPair
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store == nil {
		return ErrTokenStoreNil
	}
	if err := m.store.SaveTokens(pair); err != nil {
		return err
	}
	m.tokens = pair
	m.state = StateAuthenticated
	m.lastErr = ""
	if user != nil {
		m.user = user
	} else if decoded, err := UserFromToken(pair.AccessToken); err == nil {
		m.user = decoded
	} else {
		m.user = nil
	}
	return nil
}

// Logout 清空会话。无论底层存储的清理是否成功，
// 状态机都必须切到 Unauthenticated，内存中的令牌一并丢弃。
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.clearStore(); err != nil {
		m.logger.Errorf("auth: 清理持久化令牌失败，会话仍将登出: %v", err)
	}
	m.resetLocked()
}

// TokenExpired 判断当前访问令牌是否过期，无令牌视为过期。
func (m *Manager) TokenExpired() bool {
	m.mu.RLock()
	token := m.tokens.AccessToken
	m.mu.RUnlock()
	return TokenExpired(token, m.now())
}

// Refresh 主动触发一次刷新并回读最新令牌。
// 刷新失败是必须上抛的失败：会话被清空，调用方应引导用户重新登录。
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.RLock()
	refresher := m.refresher
	m.mu.RUnlock()
	if refresher == nil {
		return ErrRefresherNil
	}
	if err := refresher.Refresh(ctx); err != nil {
		m.mu.Lock()
		m.lastErr = err.Error()
		if clearErr := m.clearStore(); clearErr != nil {
			m.logger.Errorf("auth: 刷新失败后清理令牌失败: %v", clearErr)
		}
		m.resetLocked()
		m.mu.Unlock()
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	pair, ok := m.loadTokens()
	if !ok {
		m.resetLocked()
		return ErrNotAuthenticated
	}
	m.tokens = pair
	m.state = StateAuthenticated
	return nil
}

// IsAuthenticated 返回当前是否持有会话。
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated
}

// State 返回状态机当前状态。
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Snapshot 返回会话状态的只读投影。
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// SetUser 更新用户信息缓存。
func (m *Manager) SetUser(user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
}

// User 返回用户信息缓存的拷贝。
func (m *Manager) User() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	cp := *m.user
	return &cp
}

// UserRole 返回当前用户角色；无会话时返回空。
// 用户缓存缺失时退回到访问令牌声明。
func (m *Manager) UserRole() model.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated {
		return ""
	}
	if m.user != nil {
		return m.user.Role
	}
	if user, err := UserFromToken(m.tokens.AccessToken); err == nil {
		return user.Role
	}
	return ""
}

// HasRole 判断当前用户是否具备指定角色。
func (m *Manager) HasRole(role model.Role) bool {
	return role != "" && m.UserRole() == role
}

// GetAccessToken 实现 httpclient.TokenProvider，供请求管线取当前访问令牌。
func (m *Manager) GetAccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.AccessToken
}

// WatchExpiry 周期性检查令牌过期，发现过期即登出。上下文取消后返回。
func (m *Manager) WatchExpiry(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if m.IsAuthenticated() && m.TokenExpired() {
				m.logger.Debugf("auth: 周期检查发现令牌过期，执行登出")
				m.Logout()
			}
		}
	}
}

// loadTokens 软读取持久化令牌，残缺或读取失败都按无会话处理。
func (m *Manager) loadTokens() (TokenPair, bool) {
	if m.store == nil {
		return TokenPair{}, false
	}
	pair, err := m.store.LoadTokens()
	if err != nil || !pair.Valid() {
		return TokenPair{}, false
	}
	return pair, true
}

func (m *Manager) clearStore() error {
	if m.store == nil {
		return nil
	}
	return m.store.ClearTokens()
}

func (m *Manager) resetLocked() {
	m.tokens = TokenPair{}
	m.user = nil
	m.state = StateUnauthenticated
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:           m.state,
		IsAuthenticated: m.state == StateAuthenticated,
		IsLoading:       m.state == StateLoading,
		Err:             m.lastErr,
		AccessToken:     m.tokens.AccessToken,
		RefreshToken:    m.tokens.RefreshToken,
	}
	if m.user != nil {
		cp := *m.user
		snap.User = &cp
	}
	return snap
}
