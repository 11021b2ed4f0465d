package httpclient

import (
	"errors"
	"net/http"
	"time"
)

// RetryPolicy 定义重试策略。
type RetryPolicy interface {
	ShouldRetry(req *http.Request, resp *http.Response, err error, attempt int) (bool, time.Duration, error)
}

// RetryConfig 配置认证刷新与指数退避重试。
type RetryConfig struct {
	MaxRetries int           // 网络/服务端错误的最大重试次数
	BaseDelay  time.Duration // 退避起始间隔
	MaxDelay   time.Duration // 退避上限
	Refresh    func() error  // 401 时的令牌刷新回调
	Logger     Logger
}

// DefaultRetryConfig 返回默认配置，不含刷新回调。
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  200 * time.Millisecond,
		MaxDelay:   2 * time.Second,
	}
}

// AuthBackoffRetry 实现两条互不混用的重试路径：
//   - 401 且配置了刷新回调时，刷新一次并立即重放原请求。
//     attempt 大于 0 即不再刷新，单个请求最多触发一次刷新重试；
//     刷新本身失败时把刷新错误交还调用方，不再重试。
//   - 网络错误与 5xx 按指数退避重试，最多 MaxRetries 次。
//
// 解码失败与其余 4xx 一律不重试，直接交还调用方。
type AuthBackoffRetry struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	refresh    func() error
	logger     Logger
}

// NewAuthBackoffRetry 创建重试策略。
func NewAuthBackoffRetry(cfg RetryConfig) *AuthBackoffRetry {
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	return &AuthBackoffRetry{
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
		maxDelay:   cfg.MaxDelay,
		refresh:    cfg.Refresh,
		logger:     logger,
	}
}

// ShouldRetry 根据错误类型、状态码决定是否重试。
func (r *AuthBackoffRetry) ShouldRetry(req *http.Request, resp *http.Response, err error, attempt int) (bool, time.Duration, error) {
	if r == nil {
		return false, 0, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			if r.refresh == nil || attempt > 0 {
				return false, 0, nil
			}
			if refreshErr := r.refresh(); refreshErr != nil {
				r.logger.Errorf("令牌刷新失败: %v", refreshErr)
				return false, 0, refreshErr
			}
			r.logger.Debugf("401 已刷新令牌，重放原请求")
			return true, 0, nil
		}
		if apiErr.Status >= http.StatusInternalServerError && attempt < r.maxRetries {
			r.logger.Debugf("服务端错误(status=%d)，第 %d 次重试", apiErr.Status, attempt+1)
			return true, r.backoff(attempt), nil
		}
		return false, 0, nil
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if attempt >= r.maxRetries {
			return false, 0, nil
		}
		r.logger.Debugf("网络错误，第 %d 次重试", attempt+1)
		return true, r.backoff(attempt), nil
	}

	return false, 0, nil
}

func (r *AuthBackoffRetry) backoff(attempt int) time.Duration {
	base := r.baseDelay
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	max := r.maxDelay
	if max <= 0 {
		max = 2 * time.Second
	}
	delay := base << attempt
	if delay > max {
		delay = max
	}
	return delay
}
