package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/domain"
)

// 身份接口错误
var (
	// ErrTokenInvalid 表示令牌已失效（401/403 或业务码非 200）
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrLoginFailed 表示登录被上游拒绝
	ErrLoginFailed = errors.New("login rejected")
)

// IdentityAPI 定义会话存储依赖的身份接口
type IdentityAPI interface {
	FetchProfile(ctx context.Context, token string) (*domain.UserProfile, error)
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
}

// APIClient 通过网关访问身份接口
type APIClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewAPIClient 创建身份接口客户端。baseURL 指向网关，例如 http://localhost:3001。
func NewAPIClient(baseURL string, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  logger,
	}
}

// envelope 网关信封的客户端视角
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// FetchProfile 拉取当前用户资料。
// HTTP 401/403 或业务码非 200 都视为令牌失效。
func (c *APIClient) FetchProfile(ctx context.Context, token string) (*domain.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user/profile", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Authorization", "Bearer "+token)

	env, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return nil, ErrTokenInvalid
	}
	if env.Code != 200 {
		c.logger.Debug("profile fetch rejected",
			zap.Int("code", env.Code),
			zap.String("message", env.Message),
		)
		return nil, ErrTokenInvalid
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &profile, nil
}

// Login 执行登录并返回上游下发的身份数据
func (c *APIClient) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	payload, err := json.Marshal(domain.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/user/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")

	env, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if env.Code != 200 {
		if env.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrLoginFailed, env.Message)
		}
		return nil, ErrLoginFailed
	}

	var result domain.LoginResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, fmt.Errorf("decode login result: %w", err)
	}
	return &result, nil
}

func (c *APIClient) do(req *http.Request) (*envelope, int, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call gateway: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("read gateway response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, res.StatusCode, fmt.Errorf("decode gateway response: %w", err)
	}
	return &env, res.StatusCode, nil
}
