package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "http://localhost:3000", cfg.App.BaseURL)
	assert.NotEmpty(t, cfg.Storage.Dir)
	assert.Equal(t, "debug", cfg.Log.Mode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SHOP_API_BASE_URL", "https://api.escape-ship.dev")
	t.Setenv("SHOP_LOG_MODE", "release")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.escape-ship.dev", cfg.API.BaseURL)
	assert.Equal(t, "release", cfg.Log.Mode)
	assert.Equal(t, "http://localhost:3000", cfg.App.BaseURL, "未覆盖的配置保持默认值")
}

func TestKakaoRedirectURI(t *testing.T) {
	cfg := &Config{App: AppConfig{BaseURL: "http://localhost:3000"}}
	assert.Equal(t, "http://localhost:3000/auth/kakao/callback", cfg.KakaoRedirectURI())

	cfg.App.BaseURL = "https://shop.escape-ship.dev/"
	assert.Equal(t, "https://shop.escape-ship.dev/auth/kakao/callback", cfg.KakaoRedirectURI(), "末尾斜杠不重复")
}
