package routeguard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/escape-ship/shop-desktop/core/model"
)

func TestClassify(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		path string
		want Class
	}{
		{"/", ClassPublic},
		{"/products", ClassPublic},
		{"/products/123", ClassPublic},
		{"/cart", ClassProtected},
		{"/cart/items", ClassProtected},
		{"/order", ClassProtected},
		{"/payment/kakao", ClassProtected},
		{"/my-page", ClassProtected},
		{"/login", ClassAuthOnly},
		{"/register", ClassAuthOnly},
		{"/admin", ClassAdminOnly},
		{"/admin/products", ClassAdminOnly},
		// 前缀必须整段命中。
		{"/cartoon", ClassPublic},
		{"/administrator", ClassPublic},
		{"/loginx", ClassPublic},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, rules.Classify(tt.path), "path=%s", tt.path)
		})
	}
}

func TestDecideProtectedRedirectsToLogin(t *testing.T) {
	rules := DefaultRules()
	anon := SessionView{}

	d := rules.Decide("/cart", "", anon)
	assert.False(t, d.Allow)
	assert.Equal(t, "/login?redirect=%2Fcart", d.RedirectTo, "登录后回跳原目标")

	d = rules.Decide("/order/123", "", anon)
	assert.Equal(t, "/login?redirect=%2Forder%2F123", d.RedirectTo)
}

func TestDecideProtectedAllowsAuthenticated(t *testing.T) {
	rules := DefaultRules()
	user := SessionView{Authenticated: true, Role: model.RoleUser}

	d := rules.Decide("/cart", "", user)
	assert.True(t, d.Allow)
	assert.Empty(t, d.RedirectTo)
}

func TestDecideAuthOnlyBouncesAuthenticated(t *testing.T) {
	rules := DefaultRules()
	user := SessionView{Authenticated: true, Role: model.RoleUser}

	d := rules.Decide("/login", "", user)
	assert.False(t, d.Allow)
	assert.Equal(t, "/", d.RedirectTo, "无回跳目标时回首页")

	d = rules.Decide("/login", "/cart", user)
	assert.Equal(t, "/cart", d.RedirectTo, "携带 redirect 参数时回跳原目标")

	d = rules.Decide("/register", "", SessionView{})
	assert.True(t, d.Allow, "未登录用户可访问注册页")
}

func TestDecideAdminOnly(t *testing.T) {
	rules := DefaultRules()

	d := rules.Decide("/admin", "", SessionView{})
	assert.Equal(t, "/login?redirect=%2Fadmin", d.RedirectTo, "未登录先去登录页")

	d = rules.Decide("/admin", "", SessionView{Authenticated: true, Role: model.RoleUser})
	assert.False(t, d.Allow)
	assert.Equal(t, "/", d.RedirectTo, "非管理员回首页而非登录页")

	d = rules.Decide("/admin/products", "", SessionView{Authenticated: true, Role: model.RoleAdmin})
	assert.True(t, d.Allow)
}

func TestDecidePublicAlwaysAllows(t *testing.T) {
	rules := DefaultRules()
	assert.True(t, rules.Decide("/", "", SessionView{}).Allow)
	assert.True(t, rules.Decide("/products/1", "", SessionView{Authenticated: true, Role: model.RoleAdmin}).Allow)
}

func TestEmptyRulesFallbacks(t *testing.T) {
	rules := Rules{Protected: []string{"/cart"}}

	d := rules.Decide("/cart", "", SessionView{})
	assert.Equal(t, "/login?redirect=%2Fcart", d.RedirectTo, "未配置登录入口时使用默认值")
}
