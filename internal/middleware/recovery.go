package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/resp"
)

// Recovery 捕获处理链中的 panic，并以统一信封返回 500。
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()),
						zap.String("request_id", RequestIDFromContext(r.Context())),
					)
					resp.Write(w, http.StatusInternalServerError,
						resp.Failure(resp.CodeInternalError, "internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
