package httpclient

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter 按 host/路由限流。
type RateLimiter interface {
	Wait(ctx context.Context, req *http.Request) error
}

// HostLimiter 基于 golang.org/x/time/rate 的按 key（默认 host）限流器。
type HostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	keyFn    func(*http.Request) string
}

// NewHostLimiter 创建限流器，qps <= 0 时 Wait 直接放行。
// burst 未设置时取 1，突发额度为 0 的限流器不放行任何请求。
func NewHostLimiter(qps float64, burst int, keyFn func(*http.Request) string) *HostLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(qps),
		burst:    burst,
		keyFn:    keyFn,
	}
}

// Wait 在发起请求前阻塞，直到当前 key 拿到令牌或上下文取消。
func (l *HostLimiter) Wait(ctx context.Context, req *http.Request) error {
	if l == nil || l.limit <= 0 {
		return nil
	}
	return l.getLimiter(req).Wait(ctx)
}

func (l *HostLimiter) getLimiter(req *http.Request) *rate.Limiter {
	key := ""
	if req != nil && req.URL != nil {
		key = req.URL.Host
	}
	if l.keyFn != nil {
		if k := l.keyFn(req); k != "" {
			key = k
		}
	}
	if key == "" {
		key = "default"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}
