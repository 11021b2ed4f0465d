// Package shopapi 封装 escape-ship 商城后端的 REST 接口：
// 认证、商品、订单与 Kakao Pay。所有包装方法只返回结构化的
// httpclient 错误，不向调用方暴露原始传输错误。
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/escape-ship/shop-desktop/core/httpclient"
)

// Client 统一封装商城后端 API 调用。
type Client struct {
	http    *httpclient.Client
	logger  httpclient.Logger
	baseURL string
}

// Option 自定义客户端配置。
type Option func(*Client)

// WithHTTPClient 注入自定义 httpclient.Client，鉴权中间件与重试策略在其上配置。
func WithHTTPClient(cli *httpclient.Client) Option {
	return func(c *Client) {
		if cli != nil {
			c.http = cli
		}
	}
}

// WithLogger 注入日志接口。
func WithLogger(logger httpclient.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
			if c.http != nil {
				c.http.Logger = logger
			}
		}
	}
}

// WithBaseURL 替换默认后端地址。
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// NewClient 创建默认客户端。
func NewClient(opts ...Option) *Client {
	cli := &Client{
		http:    httpclient.NewClient(),
		logger:  httpclient.NopLogger{},
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cli)
		}
	}
	if cli.http == nil {
		cli.http = httpclient.NewClient()
	}
	if cli.logger == nil {
		cli.logger = httpclient.NopLogger{}
	}
	cli.http.Logger = cli.logger
	return cli
}

// BaseURL 返回当前后端地址。
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// get 发送 GET 请求并解码 JSON 响应。
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := joinURL(c.baseURL, path)
	if len(query) > 0 {
		if strings.Contains(u, "?") {
			u += "&" + query.Encode()
		} else {
			u += "?" + query.Encode()
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req, out)
}

// postJSON 发送 JSON 请求体并解码响应。设置 GetBody 保证请求可重放。
func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(c.baseURL, path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(payload)), nil
	}
	return c.http.Do(req, out)
}

func joinURL(base, path string) string {
	if base == "" {
		return path
	}
	base = strings.TrimSuffix(base, "/")
	if path == "" {
		return base
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}
