package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/fallback"
	"github.com/yesyes/campus-club-gateway/internal/middleware"
	"github.com/yesyes/campus-club-gateway/internal/resp"
)

// VerifyCodeAdvisoryMessage 是验证码端点超时后的提示信息：
// 邮件可能已经发出，只是没等到上游确认。
const VerifyCodeAdvisoryMessage = "verification code may have been sent, please check your email"

// Handler 消费端点表，为每个 Route 生成一个转发处理器。
type Handler struct {
	fw              *Forwarder
	defaultTimeout  time.Duration
	extendedTimeout time.Duration
	logger          *zap.Logger
}

// NewHandler 创建转发处理器工厂
func NewHandler(fw *Forwarder, defaultTimeout, extendedTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		fw:              fw,
		defaultTimeout:  defaultTimeout,
		extendedTimeout: extendedTimeout,
		logger:          logger,
	}
}

// Handle 为单个端点生成 gin 处理函数。
// 每个入站请求至多触发一次出站调用，失败不重试。
func (h *Handler) Handle(rt Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := middleware.RequestIDFromContext(c.Request.Context())

		var body []byte
		if c.Request.Method != http.MethodGet && c.Request.Body != nil {
			b, err := io.ReadAll(c.Request.Body)
			if err != nil {
				resp.Write(c.Writer, http.StatusBadRequest,
					resp.Failure(http.StatusBadRequest, "read request body failed"))
				return
			}
			body = b
		}

		d := BuildDescriptor(c.Request, h.fw.TargetURL(c.Request), rt.ForwardsAuth, body)

		timeout := h.defaultTimeout
		if rt.ExtendedWait {
			timeout = h.extendedTimeout
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		out, err := h.fw.Do(ctx, d)

		// 兜底替换：传输失败或规整后非 200 时，五个只读端点返回静态数据。
		// 对这些端点而言，上游的逻辑失败对界面不可见。
		if rt.FallbackKey != "" && (err != nil || out.Raw || !out.Result.OK()) {
			if data, ok := fallback.Lookup(rt.FallbackKey); ok {
				h.logger.Warn("serving fallback dataset",
					zap.String("request_id", reqID),
					zap.String("path", rt.Path),
					zap.String("fallback_key", string(rt.FallbackKey)),
					zap.Error(err),
				)
				resp.WriteOK(c.Writer, resp.Success(data))
				return
			}
		}

		if err != nil {
			if rt.TolerateTimeout && errors.Is(err, context.DeadlineExceeded) {
				h.logger.Warn("upstream timed out, assuming side effect happened",
					zap.String("request_id", reqID),
					zap.String("path", rt.Path),
				)
				resp.WriteOK(c.Writer, resp.SuccessWithMessage(VerifyCodeAdvisoryMessage, nil))
				return
			}

			h.logger.Error("upstream request failed",
				zap.String("request_id", reqID),
				zap.String("method", rt.Method),
				zap.String("path", rt.Path),
				zap.Error(err),
			)
			resp.Write(c.Writer, http.StatusInternalServerError,
				resp.Failure(resp.CodeInternalError, "server error: "+err.Error()))
			return
		}

		// 500 以上的上游响应原样转发，不做信封规整
		if out.Raw {
			if len(out.RawBody) == 0 {
				resp.Write(c.Writer, out.Status, resp.Failure(out.Status, "request failed"))
				return
			}
			ct := out.ContentType
			if ct == "" {
				ct = "application/json; charset=utf-8"
			}
			c.Data(out.Status, ct, out.RawBody)
			return
		}

		resp.Write(c.Writer, out.Status, out.Result)
	}
}
