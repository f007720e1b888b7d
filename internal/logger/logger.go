// Package logger 基于 zap 构建进程级日志器。
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 根据运行环境与日志配置创建 *zap.Logger。
// prod 环境使用生产配置（采样、ISO8601 时间），其余环境使用开发配置。
func New(env, level, encoding, name, version string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	lv, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lv)

	switch encoding {
	case "json", "console":
		cfg.Encoding = encoding
	case "":
		// 保留环境默认值
	default:
		return nil, fmt.Errorf("unknown log encoding %q", encoding)
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.InitialFields = map[string]any{
		"app":     name,
		"version": version,
	}

	return cfg.Build()
}
