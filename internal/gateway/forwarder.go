package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/resp"
)

// Outcome 表示一次上游调用的结果。
// [200,499] 的 HTTP 状态视为"可转发的有效响应"，经信封规整后放在 Result；
// 500 及以上的状态不做规整，原样放在 RawBody（Raw=true）。
// 传输层失败（DNS/连接/超时）不产生 Outcome，由 Do 返回 error。
type Outcome struct {
	Status      int
	ContentType string
	Result      resp.Result
	RawBody     []byte
	Raw         bool
}

// Forwarder 负责与上游的单次 HTTP 交互：一进一出，无重试。
type Forwarder struct {
	base   *url.URL
	client *http.Client
	logger *zap.Logger
}

// NewForwarder 创建转发器。等待上限由调用方通过请求上下文控制，
// 客户端本身不设全局超时，避免覆盖验证码端点的更长预算。
func NewForwarder(baseURL string, logger *zap.Logger) (*Forwarder, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", baseURL)
	}
	return &Forwarder{
		base:   u,
		client: &http.Client{},
		logger: logger,
	}, nil
}

// TargetURL 把入站请求映射到上游地址。端点路径与上游一一对应，
// 原始查询串逐字节透传以保持既有编码。
func (f *Forwarder) TargetURL(r *http.Request) string {
	target := f.base.Scheme + "://" + f.base.Host + r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target
}

// Do 执行一次出站调用并归类结果。
func (f *Forwarder) Do(ctx context.Context, d Descriptor) (*Outcome, error) {
	var body io.Reader
	if len(d.Body) > 0 {
		body = bytes.NewReader(d.Body)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, d.TargetURL, body)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	for k, vs := range d.Header {
		req.Header[k] = vs
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward %s %s: %w", d.Method, d.TargetURL, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}

	f.logger.Debug("upstream response",
		zap.String("method", d.Method),
		zap.String("target", d.TargetURL),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(raw)),
	)

	if res.StatusCode >= http.StatusInternalServerError {
		return &Outcome{
			Status:      res.StatusCode,
			ContentType: res.Header.Get("Content-Type"),
			RawBody:     raw,
			Raw:         true,
		}, nil
	}

	return &Outcome{
		Status: res.StatusCode,
		Result: resp.Normalize(raw),
	}, nil
}
