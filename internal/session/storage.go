// Package session 实现会话存储：持久化的身份键值存储、
// 会话状态机（未认证 → 认证中 → 已认证）以及对网关的身份接口调用。
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// 身份持久化使用的五个键。登录或资料刷新成功时整组写入，
// 登出时整组清除，任何时刻不允许只剩部分键。
const (
	KeyToken       = "token"
	KeyUserRole    = "userRole"
	KeyUserID      = "userId"
	KeyUsername    = "username"
	KeyUserProfile = "userProfile"
)

// IdentityKeys 返回全部身份键
func IdentityKeys() []string {
	return []string{KeyToken, KeyUserRole, KeyUserID, KeyUsername, KeyUserProfile}
}

// ErrKeyNotFound 表示键不存在
var ErrKeyNotFound = errors.New("key not found")

// Storage 定义身份键值存储接口
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// MemoryStorage 内存存储实现（用于开发和测试）
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStorage 创建内存存储实例
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]string)}
}

// Get 获取键值
func (m *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

// Set 设置键值
func (m *MemoryStorage) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Del 删除键
func (m *MemoryStorage) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// Close 关闭存储
func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
	return nil
}

// RedisStorage Redis 存储实现，键带命名空间前缀
type RedisStorage struct {
	client redis.Cmdable
	prefix string
	closer func() error
}

// NewRedisStorage 创建 Redis 存储实例
func NewRedisStorage(addr, password string, db int, prefix string) (*RedisStorage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		// 连接池配置
		PoolSize:     10,
		MinIdleConns: 2,

		// 超时配置
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStorage{client: client, prefix: prefix, closer: client.Close}, nil
}

func (r *RedisStorage) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

// Get 获取键值
func (r *RedisStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("get key %s: %w", key, err)
	}
	return v, nil
}

// Set 设置键值
func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("set key %s: %w", key, err)
	}
	return nil
}

// Del 删除键
func (r *RedisStorage) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = r.key(k)
	}
	if err := r.client.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

// Close 关闭连接
func (r *RedisStorage) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}
