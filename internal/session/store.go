package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "goblog:session:"

// Store 登录会话，token 换 user_id
// 明文 user_id 参数只是兼容旧前端的回退路径，正常登录走这里
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

// Create 登录成功后签发不透明 token
func (s *Store) Create(ctx context.Context, userID uint64) (string, error) {
	token := uuid.NewString()
	err := s.rdb.Set(ctx, keyPrefix+token, strconv.FormatUint(userID, 10), s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("写入会话失败: %w", err)
	}
	return token, nil
}

// Get 校验 token 并返回 user_id，不存在或过期返回 error
func (s *Store) Get(ctx context.Context, token string) (uint64, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(val, 10, 64)
}

// Delete 注销会话
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}
