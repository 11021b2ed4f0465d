package httpclient

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type mockResponse struct {
	Message string `json:"message"`
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Logger:     NopLogger{},
	}
}

func TestDoSuccess(t *testing.T) {
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
		}),
	}))
	req, _ := http.NewRequest(http.MethodGet, "http://mock/success", nil)
	var rsp mockResponse
	if err := client.Do(req, &rsp); err != nil {
		t.Fatalf("预期成功，得到错误: %v", err)
	}
	if rsp.Message != "ok" {
		t.Fatalf("响应解析错误: %+v", rsp)
	}
}

func TestDoEmptyBodySuccess(t *testing.T) {
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, ``), nil
		}),
	}))
	req, _ := http.NewRequest(http.MethodGet, "http://mock/empty", nil)
	var rsp mockResponse
	if err := client.Do(req, &rsp); err != nil {
		t.Fatalf("空响应体应视为成功: %v", err)
	}
}

func TestAuthRefreshRetriesOnce(t *testing.T) {
	token := "stale-token"
	refreshCalled := 0
	cfg := fastRetryConfig()
	cfg.Refresh = func() error {
		refreshCalled++
		token = "fresh-token"
		return nil
	}

	attempt := 0
	var secondAuth string
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(cfg)),
		WithMiddlewares(WithBearerToken(tokenFunc(func() string { return token }))),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				attempt++
				if attempt == 1 {
					return jsonResponse(http.StatusUnauthorized, `{"message":"token expired"}`), nil
				}
				secondAuth = req.Header.Get("Authorization")
				return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
			}),
		}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/auth", nil)
	var rsp mockResponse
	if err := client.Do(req, &rsp); err != nil {
		t.Fatalf("刷新后应重放成功: %v", err)
	}
	if refreshCalled != 1 {
		t.Fatalf("刷新调用次数不正确，得到 %d", refreshCalled)
	}
	if attempt != 2 {
		t.Fatalf("请求次数不正确，得到 %d", attempt)
	}
	if secondAuth != "Bearer fresh-token" {
		t.Fatalf("重放请求未携带新令牌: %q", secondAuth)
	}
}

func TestAuthRefreshFailureSurfaces(t *testing.T) {
	refreshErr := errors.New("refresh rejected")
	refreshCalled := 0
	cfg := fastRetryConfig()
	cfg.Refresh = func() error {
		refreshCalled++
		return refreshErr
	}

	attempt := 0
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(cfg)),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				attempt++
				return jsonResponse(http.StatusUnauthorized, `{"message":"token expired"}`), nil
			}),
		}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/auth", nil)
	err := client.Do(req, &mockResponse{})
	if !errors.Is(err, refreshErr) {
		t.Fatalf("应返回刷新失败错误，实际: %v", err)
	}
	if attempt != 1 {
		t.Fatalf("刷新失败后不应重放请求，实际请求 %d 次", attempt)
	}
	if refreshCalled != 1 {
		t.Fatalf("刷新调用次数不正确，得到 %d", refreshCalled)
	}
}

func TestSecondUnauthorizedNoSecondRefresh(t *testing.T) {
	refreshCalled := 0
	cfg := fastRetryConfig()
	cfg.Refresh = func() error {
		refreshCalled++
		return nil
	}

	attempt := 0
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(cfg)),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				attempt++
				return jsonResponse(http.StatusUnauthorized, `{"message":"still unauthorized"}`), nil
			}),
		}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/auth", nil)
	err := client.Do(req, &mockResponse{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("应返回 401 错误，实际: %v", err)
	}
	if refreshCalled != 1 {
		t.Fatalf("单个请求最多刷新一次，实际 %d 次", refreshCalled)
	}
	if attempt != 2 {
		t.Fatalf("刷新后只重放一次，实际请求 %d 次", attempt)
	}
}

func TestServerFaultRetry(t *testing.T) {
	attempt := 0
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(fastRetryConfig())),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				attempt++
				if attempt < 3 {
					return jsonResponse(http.StatusInternalServerError, `{"message":"boom"}`), nil
				}
				return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
			}),
		}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/fault", nil)
	var rsp mockResponse
	if err := client.Do(req, &rsp); err != nil {
		t.Fatalf("服务端错误退避后应成功: %v", err)
	}
	if attempt != 3 {
		t.Fatalf("请求次数不正确，得到 %d", attempt)
	}
}

func TestNoRetryOnBadRequest(t *testing.T) {
	attempt := 0
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(fastRetryConfig())),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				attempt++
				return jsonResponse(http.StatusBadRequest, `{"message":"bad input","code":"INVALID"}`), nil
			}),
		}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/bad", nil)
	err := client.Do(req, &mockResponse{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("错误类型应为 APIError，实际: %v", err)
	}
	if apiErr.Kind != KindBadRequest || apiErr.Code != "INVALID" {
		t.Fatalf("错误分类不正确: %+v", apiErr)
	}
	if attempt != 1 {
		t.Fatalf("4xx 不应重试，实际请求 %d 次", attempt)
	}
}

func TestValidationFieldsMapped(t *testing.T) {
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusUnprocessableEntity,
				`{"message":"validation failed","fields":{"email":["이메일 형식이 올바르지 않습니다."]}}`), nil
		}),
	}))
	req, _ := http.NewRequest(http.MethodPost, "http://mock/validate", nil)
	err := client.Do(req, &mockResponse{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("错误类型应为 APIError，实际: %v", err)
	}
	if apiErr.Kind != KindValidationFailed {
		t.Fatalf("422 应归类为校验失败: %+v", apiErr)
	}
	if len(apiErr.Fields["email"]) != 1 {
		t.Fatalf("字段级错误未透传: %+v", apiErr.Fields)
	}
}

func TestRateLimitedNoRetry(t *testing.T) {
	attempt := 0
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(fastRetryConfig())),
		WithHTTPClient(&http.Client{
			Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
				attempt++
				return jsonResponse(http.StatusTooManyRequests, `{"message":"slow down"}`), nil
			}),
		}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/limit", nil)
	err := client.Do(req, &mockResponse{})
	if !IsKind(err, KindRateLimited) {
		t.Fatalf("429 应归类为限流: %v", err)
	}
	if attempt != 1 {
		t.Fatalf("429 不应自动重试，实际请求 %d 次", attempt)
	}
}

func TestNetworkRetry(t *testing.T) {
	transport := &flakyTransport{
		failures: 1,
		inner: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
		}),
	}
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(fastRetryConfig())),
		WithHTTPClient(&http.Client{Transport: transport}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/network", nil)
	var rsp mockResponse
	if err := client.Do(req, &rsp); err != nil {
		t.Fatalf("网络错误后应重试成功: %v", err)
	}
	if transport.attempts != 2 {
		t.Fatalf("应尝试 2 次，实际 %d", transport.attempts)
	}
}

func TestRetryDisabled(t *testing.T) {
	transport := &flakyTransport{failures: 1, inner: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
	})}
	client := NewClient(
		WithRetryPolicy(nil),
		WithHTTPClient(&http.Client{Transport: transport}),
	)
	req, _ := http.NewRequest(http.MethodGet, "http://mock/noretry", nil)
	err := client.Do(req, &mockResponse{})
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("关闭重试后网络错误应直接上抛: %v", err)
	}
	if transport.attempts != 1 {
		t.Fatalf("关闭重试后只应请求 1 次，实际 %d", transport.attempts)
	}
}

func TestDecodeError(t *testing.T) {
	client := NewClient(WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `invalid json`), nil
		}),
	}))
	req, _ := http.NewRequest(http.MethodGet, "http://mock/decode", nil)
	err := client.Do(req, &mockResponse{})
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("错误类型应为 DecodeError，实际: %v", err)
	}
}

func TestBodyWithoutGetBodyKeepsServerError(t *testing.T) {
	attempt := 0
	client := NewClient(
		WithRetryPolicy(NewAuthBackoffRetry(fastRetryConfig())),
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			attempt++
			return jsonResponse(http.StatusInternalServerError, `{"message":"boom"}`), nil
		})}),
	)

	req, _ := http.NewRequest(http.MethodPost, "http://mock/body", bytes.NewBufferString("data"))
	req.GetBody = nil // 模拟无法重放的场景
	err := client.Do(req, &mockResponse{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("应交还原始服务端错误而非克隆失败: %v", err)
	}
	if attempt != 1 {
		t.Fatalf("请求体不可重放时只应请求 1 次，实际 %d", attempt)
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewHostLimiter(10, 1, nil)
	client := NewClient(
		WithRateLimiter(limiter),
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"message":"ok"}`), nil
		})}),
	)
	start := time.Now()
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, "http://mock/ratelimit", nil)
		var rsp mockResponse
		if err := client.Do(req, &rsp); err != nil {
			t.Fatalf("限流请求失败: %v", err)
		}
	}
	elapsed := time.Since(start)
	if elapsed < 50*time.Millisecond {
		t.Fatalf("限流未生效，耗时过短: %v", elapsed)
	}
}

type tokenFunc func() string

func (f tokenFunc) GetAccessToken() string { return f() }

type flakyTransport struct {
	failures int
	inner    http.RoundTripper
	attempts int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.attempts++
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("模拟网络失败")
	}
	return f.inner.RoundTrip(req)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(status)
	rec.Body.WriteString(body)
	return rec.Result()
}
