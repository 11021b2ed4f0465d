// Package config 负责客户端配置加载：环境变量优先，可选 YAML 文件兜底。
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 客户端配置。
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig 后端接口配置。
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AppConfig 前端自身地址配置，用于构造 OAuth 回跳地址。
type AppConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// StorageConfig 本地持久化配置。
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Mode string `mapstructure:"mode"` // "debug" 或 "release"
}

// Load 加载配置：先设默认值，再读可选的 config.yaml，最后被
// SHOP_ 前缀的环境变量覆盖（如 SHOP_API_BASE_URL）。
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("storage.dir", defaultStorageDir())
	v.SetDefault("log.mode", "debug")

	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// 没有配置文件也正常，靠环境变量与默认值
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// KakaoRedirectURI 返回 Kakao OAuth 的回跳地址。
func (c *Config) KakaoRedirectURI() string {
	base := strings.TrimSuffix(c.App.BaseURL, "/")
	return base + "/auth/kakao/callback"
}

// defaultStorageDir 默认落在用户配置目录下，取不到时退回当前目录。
func defaultStorageDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shop-desktop")
	}
	return "./shop-desktop-data"
}
