// Package config 提供基于环境变量的配置加载。
// 支持 .env 文件（godotenv），所有配置项均有可运行的默认值。
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 聚合应用的全部配置
type Config struct {
	App      AppConfig
	Log      LogConfig
	Upstream UpstreamConfig
	CORS     CORSConfig
	Store    StoreConfig
	Redis    RedisConfig
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name            string
	Env             string // dev | prod
	Version         string
	Port            int
	ShutdownTimeout time.Duration
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string // debug | info | warn | error
	Encoding string // json | console
}

// UpstreamConfig 上游社团平台配置
type UpstreamConfig struct {
	// BaseURL 是上游服务的根地址，所有转发请求都以它为前缀
	BaseURL string
	// Timeout 是普通转发请求的等待上限
	Timeout time.Duration
	// VerifyCodeTimeout 是验证码发送接口的等待上限。
	// 上游发邮件明显慢于其他操作，沿用原网关的更长预算。
	VerifyCodeTimeout time.Duration
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// StoreConfig 身份持久化存储配置
type StoreConfig struct {
	Type string // memory | redis
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Load 加载配置：先尝试读取 .env，再以环境变量覆盖默认值，最后校验。
func Load() (*Config, error) {
	// .env 不存在不算错误，直接使用进程环境
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "campus-club-gateway"),
			Env:             getEnv("APP_ENV", "dev"),
			Version:         getEnv("APP_VERSION", "1.0.0"),
			Port:            getEnvInt("APP_PORT", 3001),
			ShutdownTimeout: getEnvDuration("APP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Upstream: UpstreamConfig{
			BaseURL:           getEnv("UPSTREAM_BASE_URL", "http://campusclub.maxtral.fun"),
			Timeout:           getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),
			VerifyCodeTimeout: getEnvDuration("UPSTREAM_VERIFY_CODE_TIMEOUT", 60*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Store: StoreConfig{
			Type: getEnv("SESSION_STORE", "memory"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate 校验关键配置项
func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid APP_PORT: %d", c.App.Port)
	}

	u, err := url.Parse(c.Upstream.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid UPSTREAM_BASE_URL: %q", c.Upstream.BaseURL)
	}

	switch c.Store.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid SESSION_STORE: %q (expect memory or redis)", c.Store.Type)
	}

	if c.Upstream.Timeout <= 0 || c.Upstream.VerifyCodeTimeout <= 0 {
		return fmt.Errorf("upstream timeouts must be positive")
	}
	return nil
}

// RedisAddr 返回 host:port 形式的 Redis 地址
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
