package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/fallback"
)

// newTestEngine 构造只注册单个端点的 gin 引擎
func newTestEngine(t *testing.T, upstreamURL string, rt Route, defaultTimeout, extendedTimeout time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fw, err := NewForwarder(upstreamURL, zap.NewNop())
	if err != nil {
		t.Fatalf("NewForwarder failed: %v", err)
	}
	h := NewHandler(fw, defaultTimeout, extendedTimeout, zap.NewNop())

	engine := gin.New()
	engine.Handle(rt.Method, rt.Path, h.Handle(rt))
	return engine
}

type wireEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) wireEnvelope {
	t.Helper()
	var env wireEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Decode envelope failed: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestHandle_WrapsBareUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"棋社"}]`))
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodGet, Path: "/api/club-user/all-clubs", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/club-user/all-clubs", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 200 || env.Message != "success" {
		t.Errorf("Unexpected envelope: %+v", env)
	}
	if !strings.Contains(string(env.Data), "棋社") {
		t.Errorf("Expected upstream body in data, got %s", env.Data)
	}
}

func TestHandle_RelaysUpstreamEnvelope(t *testing.T) {
	upstreamBody := `{"code":401,"message":"未登录","data":null,"timestamp":123}`
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstreamBody))
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodGet, Path: "/api/user/profile", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))

	// 上游信封原样转发，HTTP 状态沿用上游
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != upstreamBody {
		t.Errorf("Expected verbatim relay %s, got %s", upstreamBody, rec.Body.String())
	}
}

func TestHandle_RelaysClientErrorStatus(t *testing.T) {
	// 404 带无 code 字段的体：状态沿用 404，体包装为 code:200
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such club"}`))
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodGet, Path: "/api/clubs/:id/application-status", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clubs/9/application-status", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 200 {
		t.Errorf("Expected wrapped code 200, got %d", env.Code)
	}
	if !strings.Contains(string(env.Data), "no such club") {
		t.Errorf("Expected error body in data, got %s", env.Data)
	}
}

func TestHandle_ServerErrorRelayedRaw(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodGet, Path: "/api/clubs", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clubs", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", rec.Code)
	}
	if rec.Body.String() != "<html>bad gateway</html>" {
		t.Errorf("Expected raw relay, got %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected upstream content type, got %s", ct)
	}
}

func TestHandle_ServerErrorEmptyBodySynthesizesEnvelope(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodGet, Path: "/api/clubs", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clubs", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 503 || env.Message != "request failed" {
		t.Errorf("Unexpected envelope: %+v", env)
	}
}

func TestHandle_TransportError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // 立即关掉，让连接必然失败

	rt := Route{Method: http.MethodPost, Path: "/api/user/verify-email"}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/verify-email", strings.NewReader(`{}`)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 500 {
		t.Errorf("Expected code 500, got %d", env.Code)
	}
	if !strings.HasPrefix(env.Message, "server error: ") {
		t.Errorf("Expected server error message, got %s", env.Message)
	}
}

func TestHandle_FallbackOnUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer upstream.Close()

	rt := Route{
		Method: http.MethodGet, Path: "/api/admin/system/statistics",
		ForwardsAuth: true, FallbackKey: fallback.KeyStatistics,
	}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/system/statistics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 200 || env.Message != "success" {
		t.Errorf("Unexpected envelope: %+v", env)
	}
	if !strings.Contains(string(env.Data), `"totalUsers"`) {
		t.Errorf("Expected statistics dataset, got %s", env.Data)
	}
}

func TestHandle_FallbackOnLogicalFailure(t *testing.T) {
	// 上游 HTTP 200 但业务码非 200，同样触发兜底
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":500,"message":"内部错误","data":null}`))
	}))
	defer upstream.Close()

	rt := Route{
		Method: http.MethodGet, Path: "/api/admin/system/users",
		ForwardsAuth: true, FallbackKey: fallback.KeyUsers,
	}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/system/users", nil))

	env := decodeEnvelope(t, rec)
	if env.Code != 200 {
		t.Errorf("Expected fallback success, got code %d", env.Code)
	}
	var users []json.RawMessage
	if err := json.Unmarshal(env.Data, &users); err != nil || len(users) == 0 {
		t.Errorf("Expected users dataset, got %s", env.Data)
	}
}

func TestHandle_FallbackOnUnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	rt := Route{
		Method: http.MethodGet, Path: "/api/club-user/points-leaderboard",
		ForwardsAuth: true, FallbackKey: fallback.KeyLeaderboard,
	}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/club-user/points-leaderboard", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 200 {
		t.Errorf("Expected fallback success, got code %d", env.Code)
	}
}

func TestHandle_NoFallbackForRegularRoute(t *testing.T) {
	// 非兜底端点的逻辑失败必须原样透出
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":403,"message":"无权限","data":null}`))
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodGet, Path: "/api/admin/club/info", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/club/info", nil))

	env := decodeEnvelope(t, rec)
	if env.Code != 403 {
		t.Errorf("Expected upstream code 403, got %d", env.Code)
	}
}

func TestHandle_VerifyCodeTimeoutReturnsAdvisorySuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer upstream.Close()

	rt := Route{
		Method: http.MethodPost, Path: "/api/user/send-verify-code",
		ExtendedWait: true, TolerateTimeout: true,
	}
	// 扩展预算设得比上游响应还短，制造超时
	engine := newTestEngine(t, upstream.URL, rt, time.Second, 50*time.Millisecond)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/user/send-verify-code", strings.NewReader(`{"email":"a@b.c"}`)))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 200 || env.Message != VerifyCodeAdvisoryMessage {
		t.Errorf("Expected advisory success, got %+v", env)
	}
}

func TestHandle_AuthForwarding(t *testing.T) {
	var gotAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer upstream.Close()

	// 声明转发鉴权的端点拷贝 Authorization
	rt := Route{Method: http.MethodGet, Path: "/api/user/profile", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	if gotAuth != "Bearer tok123" {
		t.Errorf("Expected Authorization forwarded, got %q", gotAuth)
	}

	// 公开端点即使带了 Authorization 也不拷贝
	rt = Route{Method: http.MethodPost, Path: "/api/user/login"}
	engine = newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	gotAuth = "unset"
	req = httptest.NewRequest(http.MethodPost, "/api/user/login", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer tok123")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	if gotAuth != "" {
		t.Errorf("Expected Authorization stripped for public route, got %q", gotAuth)
	}
}

func TestHandle_ForwardsBodyAndQuery(t *testing.T) {
	var gotBody, gotQuery, gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer upstream.Close()

	rt := Route{Method: http.MethodPost, Path: "/api/clubs/:id/join", ForwardsAuth: true}
	engine := newTestEngine(t, upstream.URL, rt, time.Second, time.Second)

	req := httptest.NewRequest(http.MethodPost, "/api/clubs/42/join?reason=%E5%85%B4%E8%B6%A3", strings.NewReader(`{"note":"hi"}`))
	engine.ServeHTTP(httptest.NewRecorder(), req)

	if gotPath != "/api/clubs/42/join" {
		t.Errorf("Expected path relayed verbatim, got %s", gotPath)
	}
	if gotQuery != "reason=%E5%85%B4%E8%B6%A3" {
		t.Errorf("Expected raw query relayed verbatim, got %s", gotQuery)
	}
	if gotBody != `{"note":"hi"}` {
		t.Errorf("Expected body forwarded, got %s", gotBody)
	}
}
