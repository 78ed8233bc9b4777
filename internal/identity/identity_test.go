package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeStore struct {
	tokens map[string]uint64
}

func (f *fakeStore) Get(ctx context.Context, token string) (uint64, error) {
	if uid, ok := f.tokens[token]; ok {
		return uid, nil
	}
	return 0, errors.New("no such session")
}

func resolve(t *testing.T, store TokenStore, setup func(*http.Request)) uint64 {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var got uint64
	router := gin.New()
	router.GET("/whoami", Middleware(store), func(c *gin.Context) {
		got = FromContext(c)
		c.String(200, strconv.FormatUint(got, 10))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if setup != nil {
		setup(req)
	}
	router.ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestResolveOrder(t *testing.T) {
	store := &fakeStore{tokens: map[string]uint64{"tok-42": 42}}

	// 会话 token 优先
	got := resolve(t, store, func(r *http.Request) {
		r.Header.Set("X-Session-Token", "tok-42")
		r.URL.RawQuery = "user_id=7"
	})
	assert.EqualValues(t, 42, got)

	// Bearer 形式同样可用
	got = resolve(t, store, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer tok-42")
	})
	assert.EqualValues(t, 42, got)

	// 无效 token 退回明文 user_id
	got = resolve(t, store, func(r *http.Request) {
		r.Header.Set("X-Session-Token", "expired")
		r.URL.RawQuery = "user_id=7"
	})
	assert.EqualValues(t, 7, got)

	// 什么都没有就是匿名
	got = resolve(t, store, nil)
	assert.EqualValues(t, 0, got)

	// 非数字 user_id 当匿名处理
	got = resolve(t, nil, func(r *http.Request) {
		r.URL.RawQuery = "user_id=abc"
	})
	assert.EqualValues(t, 0, got)
}
