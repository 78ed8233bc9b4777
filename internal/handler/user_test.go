package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iceymoss/go-blog/internal/identity"
	"github.com/iceymoss/go-blog/internal/repo"
	"github.com/iceymoss/go-blog/pkg/db/objects"
	"github.com/iceymoss/go-blog/pkg/transaction"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// stubIssuer 代替 redis 会话，记录签发过的用户
type stubIssuer struct {
	issued []uint64
}

func (s *stubIssuer) Create(ctx context.Context, userID uint64) (string, error) {
	s.issued = append(s.issued, userID)
	return fmt.Sprintf("token-%d", userID), nil
}

func newUserEnv(t *testing.T) (*gin.Engine, *gorm.DB, *stubIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&objects.User{}))

	issuer := &stubIssuer{}
	users := NewUsers(repo.NewUserRepo(gdb), transaction.NewManager(gdb), issuer, nil)

	router := gin.New()
	api := router.Group("/api", identity.Middleware(nil))
	{
		api.POST("/users/register", users.Register)
		api.POST("/users/login", users.Login)
		api.GET("/users/:id", users.Info)
		api.PUT("/users/:id", users.UpdateProfile)
	}
	return router, gdb, issuer
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestRegisterAndLogin(t *testing.T) {
	router, gdb, issuer := newUserEnv(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/users/register", gin.H{
		"username": "alice", "email": "alice@test.com", "password": "secret123",
	})
	assert.Equal(t, 201, w.Code)

	// 密码以 bcrypt 哈希落库
	var u objects.User
	require.NoError(t, gdb.Where("username = ?", "alice").Take(&u).Error)
	assert.NotEqual(t, "secret123", u.Password)

	// 登录成功返回用户信息和会话 token
	w, resp := doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"username": "alice", "password": "secret123",
	})
	require.Equal(t, 200, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["username"])
	assert.Equal(t, fmt.Sprintf("token-%d", u.ID), data["token"])
	assert.NotContains(t, data, "password")
	assert.Equal(t, []uint64{u.ID}, issuer.issued)

	// 密码错误与用户不存在同样是 401
	w, _ = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, 401, w.Code)
	w, _ = doJSON(t, router, http.MethodPost, "/api/users/login", gin.H{
		"username": "nobody", "password": "secret123",
	})
	assert.Equal(t, 401, w.Code)
}

func TestRegisterValidationAndDuplicates(t *testing.T) {
	router, _, _ := newUserEnv(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/users/register", gin.H{
		"username": "", "email": "", "password": "",
	})
	assert.Equal(t, 400, w.Code)
	errs := resp["errors"].(map[string]interface{})
	assert.Equal(t, "用户名不能为空", errs["username"])
	assert.Equal(t, "邮箱不能为空", errs["email"])
	assert.Equal(t, "密码不能为空", errs["password"])

	w, _ = doJSON(t, router, http.MethodPost, "/api/users/register", gin.H{
		"username": "bob", "email": "bob@test.com", "password": "pw",
	})
	require.Equal(t, 201, w.Code)

	// 用户名重复
	w, resp = doJSON(t, router, http.MethodPost, "/api/users/register", gin.H{
		"username": "bob", "email": "other@test.com", "password": "pw",
	})
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "用户名已存在", resp["message"])
	errs = resp["errors"].(map[string]interface{})
	assert.Equal(t, "用户名已被使用", errs["username"])

	// 邮箱重复
	w, resp = doJSON(t, router, http.MethodPost, "/api/users/register", gin.H{
		"username": "bob2", "email": "bob@test.com", "password": "pw",
	})
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "邮箱已存在", resp["message"])
}

func TestUserInfoAndProfile(t *testing.T) {
	router, gdb, _ := newUserEnv(t)
	require.NoError(t, gdb.Create(&objects.User{ID: 5, Username: "carol", Password: "x", Email: "c@t.com"}).Error)

	w, resp := doJSON(t, router, http.MethodGet, "/api/users/5", nil)
	assert.Equal(t, 200, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "carol", data["username"])
	assert.NotContains(t, data, "password")

	w, _ = doJSON(t, router, http.MethodGet, "/api/users/404", nil)
	assert.Equal(t, 404, w.Code)

	// 登录身份只能改自己的资料
	w, _ = doJSON(t, router, http.MethodPut, "/api/users/5?user_id=9", gin.H{"email": "new@t.com"})
	assert.Equal(t, 403, w.Code)

	w, _ = doJSON(t, router, http.MethodPut, "/api/users/5?user_id=5", gin.H{"email": "new@t.com"})
	assert.Equal(t, 200, w.Code)
	var u objects.User
	require.NoError(t, gdb.Take(&u, 5).Error)
	assert.Equal(t, "new@t.com", u.Email)
}
