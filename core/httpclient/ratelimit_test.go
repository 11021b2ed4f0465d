package httpclient

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestHostLimiterDefaultBurst(t *testing.T) {
	limiter := NewHostLimiter(100, 0, nil)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/a", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := limiter.Wait(ctx, req); err != nil {
		t.Fatalf("未设突发额度时应默认放行: %v", err)
	}
}

func TestHostLimiterDisabledWithZeroQPS(t *testing.T) {
	limiter := NewHostLimiter(0, 0, nil)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/a", nil)
	if err := limiter.Wait(context.Background(), req); err != nil {
		t.Fatalf("qps<=0 时应直接放行: %v", err)
	}
}

func TestHostLimiterKeyIsolation(t *testing.T) {
	limiter := NewHostLimiter(1, 1, nil)
	reqA, _ := http.NewRequest(http.MethodGet, "http://host-a/x", nil)
	reqB, _ := http.NewRequest(http.MethodGet, "http://host-b/x", nil)

	// 各 host 独立计额：耗尽 host-a 的额度不影响 host-b。
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := limiter.Wait(ctx, reqA); err != nil {
		t.Fatalf("首个请求应立即放行: %v", err)
	}
	if err := limiter.Wait(ctx, reqB); err != nil {
		t.Fatalf("不同 host 的请求不应等待: %v", err)
	}
}
