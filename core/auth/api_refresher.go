package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	coreerrors "github.com/escape-ship/shop-desktop/core/errors"
	"github.com/escape-ship/shop-desktop/core/httpclient"
	"github.com/escape-ship/shop-desktop/core/store"
)

var (
	// ErrNoRefreshToken 在存储中没有可用刷新令牌时返回。
	ErrNoRefreshToken = coreerrors.New(coreerrors.ErrCodeUnauthenticated, "auth: 没有可用的刷新令牌")
	// ErrRefreshResponseInvalid 在刷新接口返回残缺令牌对时返回。
	ErrRefreshResponseInvalid = coreerrors.New(coreerrors.ErrCodeInvalidState, "auth: 刷新接口返回的令牌对不完整")
)

// APIRefresher 用存储中的刷新令牌调用后端换取新令牌对并回写存储。
// 刷新失败时清空存储——带着死令牌继续只会产生反复失败。
// 刷新请求走独立的、不带认证重试的客户端，避免刷新自身再触发刷新。
type APIRefresher struct {
	client     *httpclient.Client
	store      store.TokenStore[TokenPair]
	refreshURL string
	now        func() time.Time
	logger     httpclient.Logger
}

// APIRefresherOption 自定义 APIRefresher。
type APIRefresherOption func(*APIRefresher)

// WithRefreshURL 替换刷新接口地址。
func WithRefreshURL(url string) APIRefresherOption {
	return func(r *APIRefresher) {
		if url != "" {
			r.refreshURL = url
		}
	}
}

// WithRefreshLogger 注入日志。
func WithRefreshLogger(logger httpclient.Logger) APIRefresherOption {
	return func(r *APIRefresher) {
		r.logger = logger
	}
}

// WithRefreshNow 替换时间来源。
func WithRefreshNow(now func() time.Time) APIRefresherOption {
	return func(r *APIRefresher) {
		r.now = now
	}
}

// NewAPIRefresher 创建刷新器。client 为空时创建无重试策略的默认客户端。
func NewAPIRefresher(client *httpclient.Client, tokenStore store.TokenStore[TokenPair], opts ...APIRefresherOption) *APIRefresher {
	if client == nil {
		client = httpclient.NewClient(httpclient.WithRetryPolicy(nil))
	}
	r := &APIRefresher{
		client:     client,
		store:      tokenStore,
		refreshURL: "http://localhost:8080/auth/refresh",
		now:        time.Now,
		logger:     httpclient.NopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.logger == nil {
		r.logger = httpclient.NopLogger{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Refresh 执行一次刷新。成功时把轮换后的令牌对写回存储；
// 失败时清空存储并把错误交还调用方。
func (r *APIRefresher) Refresh(ctx context.Context) error {
	if r.store == nil {
		return ErrTokenStoreNil
	}
	pair, err := r.store.LoadTokens()
	if err != nil || pair.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": pair.RefreshToken})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}

	var rsp TokenPair
	if err := r.client.Do(req, &rsp); err != nil {
		r.logger.Errorf("auth: 令牌刷新失败，清空本地会话: %v", err)
		if clearErr := r.store.ClearTokens(); clearErr != nil {
			r.logger.Errorf("auth: 刷新失败后清理令牌失败: %v", clearErr)
		}
		return err
	}
	if !rsp.Valid() {
		return ErrRefreshResponseInvalid
	}
	return r.store.SaveTokens(rsp)
}

// NeedsRefresh 判断当前存储的访问令牌是否需要刷新。
func (r *APIRefresher) NeedsRefresh() bool {
	if r.store == nil {
		return false
	}
	pair, err := r.store.LoadTokens()
	if err != nil || !pair.Valid() {
		return false
	}
	return TokenExpired(pair.AccessToken, r.now())
}
