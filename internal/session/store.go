package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yesyes/campus-club-gateway/internal/domain"
)

// State 表示会话所处的状态
type State int

const (
	// StateUnauthenticated 未认证：无令牌
	StateUnauthenticated State = iota
	// StateAuthenticating 认证中：持有令牌，资料刷新尚未完成。
	// 消费方在此状态下不得渲染任何按角色限制的内容。
	StateAuthenticating
	// StateAuthenticated 已认证：资料刷新成功
	StateAuthenticated
)

// String 返回状态名
func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// ErrNotAuthenticated 表示没有活跃会话
var ErrNotAuthenticated = errors.New("not authenticated")

// Snapshot 是会话的一致性读视图
type Snapshot struct {
	State         State
	Token         string
	PersistedRole domain.Role
	UserID        int64
	Username      string
	Profile       *domain.UserProfile
}

// Store 是当前身份的唯一事实来源。
// Initialize、Login、SetProfile、Logout 是仅有的变更入口，
// 每个入口对任何并发读取都是原子的。
type Store struct {
	mu      sync.Mutex
	storage Storage
	api     IdentityAPI
	logger  *zap.Logger
	now     func() time.Time

	state         State
	token         string
	persistedRole domain.Role
	userID        int64
	username      string
	profile       *domain.UserProfile

	// gen 在每次 Initialize/Login/Logout 时递增；
	// 资料请求返回后若 gen 已变化则丢弃结果，防止被登出后的
	// 迟到响应复活已清除的会话。
	gen uint64
}

// New 创建会话存储
func New(storage Storage, api IdentityAPI, logger *zap.Logger) *Store {
	return &Store{
		storage: storage,
		api:     api,
		logger:  logger,
		now:     time.Now,
		state:   StateUnauthenticated,
	}
}

// Initialize 从持久化存储恢复会话：
// 无令牌则保持未认证；有令牌则进入认证中并刷新资料。
// 刷新失败（含令牌已过期）清除全部身份键并回到未认证——
// 这是唯一一个由读取触发登出的路径。
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()

	token, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		s.resetMemoryLocked()
		s.mu.Unlock()
		if errors.Is(err, ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("read persisted token: %w", err)
	}

	// 预填持久化身份：资料刷新完成前路由判定用它兜底
	s.token = token
	s.persistedRole = domain.Role(s.getOrEmptyLocked(ctx, KeyUserRole))
	s.username = s.getOrEmptyLocked(ctx, KeyUsername)
	if idStr := s.getOrEmptyLocked(ctx, KeyUserID); idStr != "" {
		if id, convErr := strconv.ParseInt(idStr, 10, 64); convErr == nil {
			s.userID = id
		}
	}
	s.state = StateAuthenticating
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if tokenExpired(token, s.now()) {
		s.logger.Info("persisted token already expired, clearing session")
		return s.discardOrClear(ctx, gen, nil)
	}

	profile, fetchErr := s.api.FetchProfile(ctx, token)
	if fetchErr != nil {
		s.logger.Warn("profile refresh failed, clearing session", zap.Error(fetchErr))
		return s.discardOrClear(ctx, gen, fetchErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// 会话已被登出或新一轮初始化取代，丢弃迟到的响应
		s.logger.Debug("discarding superseded profile response")
		return nil
	}
	return s.applyProfileLocked(ctx, profile)
}

// Login 转发登录请求，成功后整组写入五个身份键
func (s *Store) Login(ctx context.Context, username, password string) error {
	result, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	profileJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode login result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	writes := map[string]string{
		KeyToken:       result.Token,
		KeyUserRole:    string(result.Role),
		KeyUserID:      strconv.FormatInt(result.UserID, 10),
		KeyUsername:    result.Username,
		KeyUserProfile: string(profileJSON),
	}
	for k, v := range writes {
		if err := s.storage.Set(ctx, k, v); err != nil {
			return fmt.Errorf("persist %s: %w", k, err)
		}
	}

	s.token = result.Token
	s.persistedRole = result.Role
	s.userID = result.UserID
	s.username = result.Username
	s.profile = &domain.UserProfile{
		UserID:   result.UserID,
		Username: result.Username,
		Role:     result.Role,
	}
	s.state = StateAuthenticated

	s.logger.Info("login succeeded",
		zap.Int64("user_id", result.UserID),
		zap.String("username", result.Username),
		zap.String("role", string(result.Role)),
	)
	return nil
}

// SetProfile 原子更新内存与持久化中的身份资料
func (s *Store) SetProfile(ctx context.Context, profile *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return ErrNotAuthenticated
	}
	return s.applyProfileLocked(ctx, profile)
}

// Logout 一次性清除全部身份键与内存状态。
// 返回后不允许有任何身份键残留。
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++

	err := s.storage.Del(ctx, IdentityKeys()...)
	s.resetMemoryLocked()
	if err != nil {
		return fmt.Errorf("clear identity keys: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

// Snapshot 返回会话的一致性副本
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:         s.state,
		Token:         s.token,
		PersistedRole: s.persistedRole,
		UserID:        s.userID,
		Username:      s.username,
	}
	if s.profile != nil {
		p := *s.profile
		snap.Profile = &p
	}
	return snap
}

// discardOrClear 处理刷新失败：若本轮仍是当前轮次则清除会话。
// 令牌失效是预期内的结局，不作为错误上抛。
func (s *Store) discardOrClear(ctx context.Context, gen uint64, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil
	}

	delErr := s.storage.Del(ctx, IdentityKeys()...)
	s.resetMemoryLocked()
	if delErr != nil {
		return fmt.Errorf("clear identity keys: %w", delErr)
	}
	if cause != nil && !errors.Is(cause, ErrTokenInvalid) {
		return fmt.Errorf("profile refresh: %w", cause)
	}
	return nil
}

// applyProfileLocked 持久化并应用新资料，调用方必须持有 s.mu
func (s *Store) applyProfileLocked(ctx context.Context, profile *domain.UserProfile) error {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	writes := map[string]string{
		KeyUserRole:    string(profile.Role),
		KeyUserID:      strconv.FormatInt(profile.UserID, 10),
		KeyUsername:    profile.Username,
		KeyUserProfile: string(profileJSON),
	}
	for k, v := range writes {
		if err := s.storage.Set(ctx, k, v); err != nil {
			return fmt.Errorf("persist %s: %w", k, err)
		}
	}

	p := *profile
	s.profile = &p
	s.persistedRole = profile.Role
	s.userID = profile.UserID
	s.username = profile.Username
	s.state = StateAuthenticated
	return nil
}

// resetMemoryLocked 重置内存状态，调用方必须持有 s.mu
func (s *Store) resetMemoryLocked() {
	s.state = StateUnauthenticated
	s.token = ""
	s.persistedRole = ""
	s.userID = 0
	s.username = ""
	s.profile = nil
}

// getOrEmptyLocked 读取键值，不存在时返回空串
func (s *Store) getOrEmptyLocked(ctx context.Context, key string) string {
	v, err := s.storage.Get(ctx, key)
	if err != nil {
		return ""
	}
	return v
}
