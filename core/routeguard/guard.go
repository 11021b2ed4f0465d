// Package routeguard 为导航层提供路由分级与放行决策。
// 决策只依赖调用方给出的会话视图，本包不读取任何全局状态。
package routeguard

import (
	"net/url"
	"strings"

	"github.com/escape-ship/shop-desktop/core/model"
)

// Class 路由的访问级别。
type Class int

const (
	// ClassPublic 未显式声明的路由默认公开。
	ClassPublic Class = iota
	// ClassProtected 需要登录。
	ClassProtected
	// ClassAuthOnly 仅未登录用户可见（登录/注册页）。
	ClassAuthOnly
	// ClassAdminOnly 需要管理员角色。
	ClassAdminOnly
)

// String 返回级别名。
func (c Class) String() string {
	switch c {
	case ClassProtected:
		return "protected"
	case ClassAuthOnly:
		return "auth-only"
	case ClassAdminOnly:
		return "admin-only"
	default:
		return "public"
	}
}

// Rules 保存各访问级别的路径前缀与跳转目标。
type Rules struct {
	Protected []string
	AuthOnly  []string
	AdminOnly []string
	LoginPath string
	HomePath  string
}

// DefaultRules 返回商城前端的默认路由规则。
func DefaultRules() Rules {
	return Rules{
		Protected: []string{"/cart", "/order", "/payment", "/my-page", "/profile"},
		AuthOnly:  []string{"/login", "/register"},
		AdminOnly: []string{"/admin"},
		LoginPath: "/login",
		HomePath:  "/",
	}
}

// SessionView 是做出决策所需的最小会话视图。
// 过期令牌由会话层折算成 Authenticated=false，本包不解析令牌。
type SessionView struct {
	Authenticated bool
	Role          model.Role
}

// Decision 单次导航的放行决策。
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Classify 判断路径的访问级别。管理员路由优先级最高，
// 前缀匹配要求整段命中（/cart 命中 /cart/123，不命中 /cartoon）。
func (r Rules) Classify(path string) Class {
	switch {
	case matchesAny(path, r.AdminOnly):
		return ClassAdminOnly
	case matchesAny(path, r.Protected):
		return ClassProtected
	case matchesAny(path, r.AuthOnly):
		return ClassAuthOnly
	default:
		return ClassPublic
	}
}

// Decide 给出单次导航的放行决策。
// redirectParam 是当前地址携带的 redirect 查询参数，
// 已登录用户访问仅未登录路由时跳回该目标。
func (r Rules) Decide(path, redirectParam string, s SessionView) Decision {
	switch r.Classify(path) {
	case ClassAdminOnly:
		if !s.Authenticated {
			return Decision{RedirectTo: r.loginRedirect(path)}
		}
		if s.Role != model.RoleAdmin {
			return Decision{RedirectTo: r.homePath()}
		}
		return Decision{Allow: true}
	case ClassProtected:
		if !s.Authenticated {
			return Decision{RedirectTo: r.loginRedirect(path)}
		}
		return Decision{Allow: true}
	case ClassAuthOnly:
		if s.Authenticated {
			target := redirectParam
			if target == "" {
				target = r.homePath()
			}
			return Decision{RedirectTo: target}
		}
		return Decision{Allow: true}
	default:
		return Decision{Allow: true}
	}
}

// loginRedirect 构造登录入口地址，携带原始目标路径供登录成功后回跳。
func (r Rules) loginRedirect(path string) string {
	login := r.LoginPath
	if login == "" {
		login = "/login"
	}
	return login + "?redirect=" + url.QueryEscape(path)
}

func (r Rules) homePath() string {
	if r.HomePath == "" {
		return "/"
	}
	return r.HomePath
}

func matchesAny(path string, routes []string) bool {
	for _, route := range routes {
		if path == route {
			return true
		}
		if strings.HasPrefix(path, route+"/") {
			return true
		}
	}
	return false
}
