package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/config"
	"github.com/yesyes/campus-club-gateway/internal/gateway"
	"github.com/yesyes/campus-club-gateway/internal/logger"
	"github.com/yesyes/campus-club-gateway/internal/router"
)

// initConfigAndLogger 初始化配置和日志器
func initConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %v", err)
	}

	// init logger
	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, cfg.App.Name, cfg.App.Version)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %v", err)
	}

	return cfg, lg, nil
}

// initDependencies 初始化网关依赖（转发器、处理器、兜底代理）
func initDependencies(cfg *config.Config, lg *zap.Logger) (*router.Dependencies, error) {
	fw, err := gateway.NewForwarder(cfg.Upstream.BaseURL, lg)
	if err != nil {
		return nil, fmt.Errorf("init forwarder: %v", err)
	}

	handler := gateway.NewHandler(fw, cfg.Upstream.Timeout, cfg.Upstream.VerifyCodeTimeout, lg)

	base, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base url: %v", err)
	}
	proxy := gateway.NewCatchAllProxy(base, lg)

	lg.Sugar().Infow("gateway initialized",
		"upstream", cfg.Upstream.BaseURL,
		"routes", len(gateway.Routes()),
		"default_timeout", cfg.Upstream.Timeout,
		"verify_code_timeout", cfg.Upstream.VerifyCodeTimeout,
	)

	return &router.Dependencies{Gateway: handler, Proxy: proxy}, nil
}

// startServer 启动服务器并处理优雅关闭
func startServer(cfg *config.Config, handler http.Handler, lg *zap.Logger) {
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	lg.Sugar().Infow("server starting", "addr", addr)
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	// 启动服务器（异步）
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	select {
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			lg.Sugar().Fatalw("server error", "err", err)
		}
	case <-quit:
		lg.Sugar().Infow("shutdown signal received")
	}

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Sugar().Errorw("server shutdown error", "err", err)
	}
	lg.Sugar().Infow("server exited")
}

// main 为应用入口，协调各个组件的初始化和启动
func main() {
	// 1) 加载配置和初始化日志
	cfg, lg, err := initConfigAndLogger()
	if err != nil {
		log.Fatalf("failed to initialize config and logger: %v", err)
	}

	// 2) 初始化网关依赖
	deps, err := initDependencies(cfg, lg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize gateway", "err", err)
	}

	// 3) 设置路由和中间件
	handler := router.Setup(cfg, deps, lg)

	// 4) 启动 HTTP 服务器
	startServer(cfg, handler, lg)
}
