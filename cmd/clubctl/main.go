// Package main 提供会话管理的命令行工具：
// 登录、查看当前身份、路由访问判定和登出。
// 配合 redis 存储时，会话可在多次调用之间持久保留。
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yesyes/campus-club-gateway/internal/authz"
	"github.com/yesyes/campus-club-gateway/internal/config"
	"github.com/yesyes/campus-club-gateway/internal/logger"
	"github.com/yesyes/campus-club-gateway/internal/session"
)

func main() {
	var (
		action   = flag.String("action", "whoami", "Session action: login, whoami, check, logout")
		username = flag.String("u", "", "Username for login")
		password = flag.String("p", "", "Password for login")
		path     = flag.String("path", "", "Route path for check")
		gateway  = flag.String("gateway", "", "Gateway base URL (default http://localhost:<APP_PORT>)")
	)
	flag.Parse()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 初始化日志
	lg, err := logger.New(cfg.App.Env, cfg.Log.Level, cfg.Log.Encoding, "clubctl", cfg.App.Version)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	baseURL := *gateway
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", cfg.App.Port)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		lg.Sugar().Fatalw("failed to initialize session storage", "error", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			lg.Sugar().Errorw("failed to close session storage", "error", err)
		}
	}()

	api := session.NewAPIClient(baseURL, lg)
	store := session.New(storage, api, lg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch *action {
	case "login":
		if *username == "" || *password == "" {
			lg.Fatal("both -u and -p must be specified for login")
		}
		if err := store.Login(ctx, *username, *password); err != nil {
			lg.Sugar().Fatalw("login failed", "error", err)
		}
		snap := store.Snapshot()
		fmt.Printf("logged in as %s (role %s)\n", snap.Username, snap.PersistedRole)

	case "whoami":
		if err := store.Initialize(ctx); err != nil {
			lg.Sugar().Fatalw("session initialization failed", "error", err)
		}
		printSnapshot(store.Snapshot())

	case "check":
		if *path == "" {
			lg.Fatal("-path must be specified for check")
		}
		if err := store.Initialize(ctx); err != nil {
			lg.Sugar().Fatalw("session initialization failed", "error", err)
		}
		decision := authz.Evaluate(*path, store.Snapshot())
		fmt.Printf("path %s: %s", *path, decision)
		if redirect := decision.RedirectPath(); redirect != "" {
			fmt.Printf(" -> %s", redirect)
		}
		fmt.Println()

	case "logout":
		if err := store.Logout(ctx); err != nil {
			lg.Sugar().Fatalw("logout failed", "error", err)
		}
		fmt.Println("logged out")

	default:
		fmt.Printf("Usage: %s -action=[login|whoami|check|logout] [options]\n", os.Args[0])
		fmt.Println("Options:")
		fmt.Println("  -action string")
		fmt.Println("        Session action: login, whoami, check, logout (default \"whoami\")")
		fmt.Println("  -u string")
		fmt.Println("        Username for login")
		fmt.Println("  -p string")
		fmt.Println("        Password for login")
		fmt.Println("  -path string")
		fmt.Println("        Route path for check")
		fmt.Println("  -gateway string")
		fmt.Println("        Gateway base URL")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  # Log in and persist the session")
		fmt.Println("  ./clubctl -action=login -u alice -p secret")
		fmt.Println()
		fmt.Println("  # Show the current identity")
		fmt.Println("  ./clubctl -action=whoami")
		fmt.Println()
		fmt.Println("  # Check whether the session may open a route")
		fmt.Println("  ./clubctl -action=check -path=/system-admin/users")
		fmt.Println()
		fmt.Println("  # Clear the session")
		fmt.Println("  ./clubctl -action=logout")
		os.Exit(1)
	}
	_ = lg.Sync()
}

// newStorage 按配置选择会话存储后端。
// memory 存储只在单次进程内有效，跨调用保留会话需要 redis。
func newStorage(cfg *config.Config) (session.Storage, error) {
	switch cfg.Store.Type {
	case "redis":
		return session.NewRedisStorage(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cfg.App.Name)
	default:
		return session.NewMemoryStorage(), nil
	}
}

func printSnapshot(snap session.Snapshot) {
	fmt.Printf("state: %s\n", snap.State)
	if snap.State == session.StateUnauthenticated {
		return
	}
	fmt.Printf("user:  %s (id %d)\n", snap.Username, snap.UserID)
	fmt.Printf("role:  %s\n", authz.ResolveRole(snap))
	if snap.Profile != nil && snap.Profile.Email != "" {
		fmt.Printf("email: %s\n", snap.Profile.Email)
	}
}
