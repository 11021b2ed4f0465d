package httpclient

import "net/http"

// Middleware 是请求预处理钩子，用于注入鉴权头、UA、Content-Type 等。
type Middleware func(req *http.Request) error

// PrepareChain 代表按顺序执行的中间件集合。
type PrepareChain []Middleware

// Apply 依次执行链路中的中间件，遇到错误立即返回。
func (c PrepareChain) Apply(req *http.Request) error {
	for _, mw := range c {
		if mw == nil {
			continue
		}
		if err := mw(req); err != nil {
			return err
		}
	}
	return nil
}

// WithHeader 设置请求头。
func WithHeader(key, value string) Middleware {
	return func(req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	}
}

// WithUserAgent 设置 User-Agent。
func WithUserAgent(ua string) Middleware {
	return WithHeader("User-Agent", ua)
}

// WithContentType 设置 Content-Type。
func WithContentType(ct string) Middleware {
	return WithHeader("Content-Type", ct)
}

// TokenProvider 提供当前访问令牌，由会话管理方实现。
type TokenProvider interface {
	GetAccessToken() string
}

// WithBearerToken 在每次请求发出前读取最新访问令牌并附加
// Authorization 头；没有令牌时不设置，让后端按匿名请求处理。
func WithBearerToken(provider TokenProvider) Middleware {
	return func(req *http.Request) error {
		if provider == nil {
			return nil
		}
		if token := provider.GetAccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}
