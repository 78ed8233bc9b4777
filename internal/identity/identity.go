package identity

import (
	"context"
	"strconv"
	"strings"

	"github.com/iceymoss/go-blog/internal/visibility"

	"github.com/gin-gonic/gin"
)

const contextKey = "identity"

// TokenStore token 换 user_id，由 redis 会话实现
type TokenStore interface {
	Get(ctx context.Context, token string) (uint64, error)
}

// Middleware 解析调用者身份，顺序：
// 1. X-Session-Token 或 Authorization: Bearer 里的会话 token
// 2. 兼容旧前端的明文 user_id 参数
// 都没有则为匿名（0）
func Middleware(sessions TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := visibility.Anonymous

		token := c.GetHeader("X-Session-Token")
		if token == "" {
			if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
				token = strings.TrimPrefix(ah, "Bearer ")
			}
		}
		if token != "" && sessions != nil {
			if uid, err := sessions.Get(c.Request.Context(), token); err == nil {
				id = uid
			}
		}

		if id == visibility.Anonymous {
			if v := c.Query("user_id"); v != "" {
				if uid, err := strconv.ParseUint(v, 10, 64); err == nil {
					id = uid
				}
			}
		}

		c.Set(contextKey, id)
		c.Next()
	}
}

// FromContext 取出已解析的身份，未解析时为匿名
func FromContext(c *gin.Context) uint64 {
	if v, ok := c.Get(contextKey); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return visibility.Anonymous
}
