package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// NewCatchAllProxy 返回兜底反向代理：端点表之外的 /api 请求原样透传到上游。
// 出站侧剥离 Origin/Referer、保留 Authorization；回程注入宽松跨域头。
// 这里不做信封规整——只有命名端点规整信封。
func NewCatchAllProxy(base *url.URL, logger *zap.Logger) http.Handler {
	proxy := &httputil.ReverseProxy{
		Director: func(req *http.Request) {
			req.URL.Scheme = base.Scheme
			req.URL.Host = base.Host
			req.Host = base.Host

			// 这两个头会让上游按浏览器来源做校验，透传会被拒
			req.Header.Del("Origin")
			req.Header.Del("Referer")
			req.Header.Set("Accept", "*/*")

			logger.Debug("proxying request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)
		},
		ModifyResponse: func(res *http.Response) error {
			res.Header.Set("Access-Control-Allow-Origin", "*")
			res.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			res.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("proxy error",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "proxy error",
				"message": err.Error(),
			})
		},
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 请求体经过网关侧中间件后长度可能与声明不一致，
		// 缓冲后重新计算 Content-Length 再交给代理
		if r.Body != nil && r.ContentLength != 0 {
			b, err := io.ReadAll(r.Body)
			if err == nil {
				r.Body = io.NopCloser(bytes.NewReader(b))
				r.ContentLength = int64(len(b))
				r.Header.Set("Content-Length", strconv.Itoa(len(b)))
			}
		}
		proxy.ServeHTTP(w, r)
	})
}
