package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout 是单次请求的全局超时上限。
const DefaultTimeout = 10 * time.Second

// Logger 由外部注入，满足 core 层无输出原则。
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger 默认空日志实现。
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Errorf(string, ...any) {}

// Client 为统一 HTTP 客户端封装。鉴权全部走 Bearer 头，不使用 Cookie。
type Client struct {
	HTTP    *http.Client
	Prepare PrepareChain
	Retry   RetryPolicy
	Limiter RateLimiter
	Logger  Logger
}

// Option 配置客户端。
type Option func(*Client)

// WithHTTPClient 自定义 http.Client。
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.HTTP = httpClient
	}
}

// WithRetryPolicy 设置重试策略，传入 nil 可关闭重试。
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.Retry = policy
	}
}

// WithRateLimiter 设置限流。
func WithRateLimiter(limiter RateLimiter) Option {
	return func(c *Client) {
		c.Limiter = limiter
	}
}

// WithLogger 注入日志。
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.Logger = logger
	}
}

// WithMiddlewares 设置请求中间件链。
func WithMiddlewares(mw ...Middleware) Option {
	return func(c *Client) {
		c.Prepare = append(c.Prepare, mw...)
	}
}

// WithTimeout 设置请求超时。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.HTTP != nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}
}

// NewClient 创建带默认超时与重试策略的客户端。
func NewClient(opts ...Option) *Client {
	client := &Client{
		HTTP:    &http.Client{Timeout: DefaultTimeout},
		Prepare: PrepareChain{},
		Logger:  NopLogger{},
	}
	client.Retry = NewAuthBackoffRetry(DefaultRetryConfig())
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.HTTP == nil {
		client.HTTP = &http.Client{Timeout: DefaultTimeout}
	}
	if client.Logger == nil {
		client.Logger = NopLogger{}
	}
	return client
}

// Use 添加中间件。
func (c *Client) Use(mw ...Middleware) {
	c.Prepare = append(c.Prepare, mw...)
}

// Do 发送请求并按需解码 JSON，包含重试、限流、中间件。
// attempt 从 0 开始计数并传入重试策略，是每个请求各自独立的重试状态，
// 保证 401 刷新重试对单个请求最多发生一次。
func (c *Client) Do(req *http.Request, out any) error {
	if req == nil {
		return errors.New("httpclient: 请求为空")
	}
	if c.HTTP == nil {
		return errors.New("httpclient: http.Client 未配置")
	}
	attempt := 0
	var lastErr error
	for {
		clonedReq, cloneErr := c.cloneRequest(req, attempt)
		if cloneErr != nil {
			// 请求体不可重放时，上一次的真实失败才是调用方关心的错误
			if lastErr != nil {
				c.Logger.Debugf("httpclient: 请求体不可重放，放弃重试: %v", cloneErr)
				return lastErr
			}
			return cloneErr
		}
		resp, err := c.execute(clonedReq, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if resp != nil && resp.Body != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		if c.Retry == nil {
			return err
		}
		retry, wait, refreshErr := c.Retry.ShouldRetry(clonedReq, resp, err, attempt)
		if refreshErr != nil {
			return refreshErr
		}
		if !retry {
			return err
		}
		attempt++
		if wait > 0 {
			time.Sleep(wait)
		}
	}
}

func (c *Client) execute(req *http.Request, out any) (*http.Response, error) {
	if c.Prepare != nil {
		if err := c.Prepare.Apply(req); err != nil {
			return nil, err
		}
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(req.Context(), req); err != nil {
			return nil, err
		}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		var body errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
			return resp, NewAPIError(resp.StatusCode, "", "", nil)
		}
		return resp, NewAPIError(resp.StatusCode, body.Code, body.Message, body.Fields)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp, nil
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber() // 保留数字精度
	if decodeErr := dec.Decode(out); decodeErr != nil {
		if decodeErr == io.EOF {
			// 空响应体，视为成功
			return resp, nil
		}
		return resp, &DecodeError{Status: resp.StatusCode, Err: decodeErr}
	}
	return resp, nil
}

func (c *Client) cloneRequest(req *http.Request, attempt int) (*http.Request, error) {
	cloned := req.Clone(req.Context())
	cloned.Header = req.Header.Clone()
	cloned.GetBody = req.GetBody
	cloned.ContentLength = req.ContentLength
	cloned.TransferEncoding = append([]string(nil), req.TransferEncoding...)
	if req.Body != nil {
		if attempt == 0 {
			cloned.Body = req.Body
		} else {
			if req.GetBody == nil {
				return nil, fmt.Errorf("httpclient: 请求体不可重试")
			}
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			cloned.Body = body
		}
	}
	return cloned, nil
}
