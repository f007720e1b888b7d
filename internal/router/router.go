// Package router 提供 HTTP 路由设置和中间件配置功能
package router

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/config"
	"github.com/yesyes/campus-club-gateway/internal/gateway"
	mw "github.com/yesyes/campus-club-gateway/internal/middleware"
	"github.com/yesyes/campus-club-gateway/internal/resp"
)

// Dependencies 包含路由设置所需的所有依赖
type Dependencies struct {
	Gateway *gateway.Handler
	Proxy   http.Handler
}

// Setup 构建完整的处理链：
// gin 引擎承载端点表与兜底代理，外层套标准库中间件
// （请求 ID → 访问日志 → CORS → 恢复）。
func Setup(cfg *config.Config, deps *Dependencies, lg *zap.Logger) http.Handler {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()

	// 健康检查端点
	engine.GET("/healthz", func(c *gin.Context) {
		data, _ := jsonRaw(map[string]string{
			"status":  "ok",
			"version": cfg.App.Version,
		})
		resp.WriteOK(c.Writer, resp.Success(data))
	})

	// 端点表驱动的命名转发路由
	for _, rt := range gateway.Routes() {
		engine.Handle(rt.Method, rt.Path, deps.Gateway.Handle(rt))
	}

	// 表外请求：/api 前缀走兜底代理，其余返回 404 信封
	engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			deps.Proxy.ServeHTTP(c.Writer, c.Request)
			return
		}
		resp.Write(c.Writer, http.StatusNotFound,
			resp.Failure(http.StatusNotFound, "not found"))
	})

	// 中间件链：请求进入时执行顺序为 request ID → access log → CORS → recovery
	var handler http.Handler = engine
	handler = mw.Recovery(lg)(handler)
	handler = mw.CORS(mw.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: cfg.CORS.AllowedMethods,
		AllowedHeaders: cfg.CORS.AllowedHeaders,
	})(handler)
	handler = mw.AccessLog(lg)(handler)
	handler = mw.RequestID(handler)

	return handler
}

func jsonRaw(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}
