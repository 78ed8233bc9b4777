package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/iceymoss/go-blog/internal/identity"
	"github.com/iceymoss/go-blog/internal/repo"
	"github.com/iceymoss/go-blog/pkg/db/objects"
	pkgerrors "github.com/iceymoss/go-blog/pkg/errors"
	"github.com/iceymoss/go-blog/pkg/logger"
	"github.com/iceymoss/go-blog/pkg/storage"
	"github.com/iceymoss/go-blog/pkg/transaction"
	"github.com/iceymoss/go-blog/pkg/xerr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionIssuer 登录成功后签发会话 token
type SessionIssuer interface {
	Create(ctx context.Context, userID uint64) (string, error)
}

type Users struct {
	repo     *repo.UserRepo
	tx       *transaction.Manager
	sessions SessionIssuer
	files    storage.FileStorage
}

func NewUsers(r *repo.UserRepo, tx *transaction.Manager, sessions SessionIssuer, files storage.FileStorage) *Users {
	return &Users{repo: r, tx: tx, sessions: sessions, files: files}
}

type registerForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 用户注册
// POST /api/users/register
// 唯一性检查和插入放在一个事务里，防止并发注册撞名
func (h *Users) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		failErr(c, 400, "参数格式错误", err)
		return
	}

	fields := make(map[string]string)
	if form.Username == "" {
		fields["username"] = "用户名不能为空"
	}
	if form.Email == "" {
		fields["email"] = "邮箱不能为空"
	}
	if form.Password == "" {
		fields["password"] = "密码不能为空"
	}
	if len(fields) > 0 {
		failFields(c, "缺少必填字段", fields)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		failErr(c, 500, "注册失败，请稍后重试", err)
		return
	}

	err = h.tx.Execute(c.Request.Context(), nil, func(ctx context.Context) error {
		taken, err := h.repo.UsernameExists(ctx, form.Username)
		if err != nil {
			return err
		}
		if taken {
			return pkgerrors.NewValidation(xerr.ErrBadRequest, "用户名已存在", map[string]string{"username": "用户名已被使用"})
		}

		taken, err = h.repo.EmailExists(ctx, form.Email)
		if err != nil {
			return err
		}
		if taken {
			return pkgerrors.NewValidation(xerr.ErrBadRequest, "邮箱已存在", map[string]string{"email": "邮箱已被使用"})
		}

		return h.repo.Create(ctx, &objects.User{
			Username: form.Username,
			Password: string(hashed),
			Email:    form.Email,
		})
	})
	if err != nil {
		if cm := pkgerrors.FromError(err); cm != nil {
			c.JSON(cm.Code, Response{Code: cm.Code, Message: cm.Msg, Errors: cm.Errors})
			return
		}
		failErr(c, 500, "注册失败，请稍后重试", err)
		return
	}

	c.JSON(201, Response{Code: 200, Message: "注册成功"})
}

// Login 用户登录，成功后签发会话 token
// POST /api/users/login
func (h *Users) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		failErr(c, 400, "参数格式错误", err)
		return
	}
	if form.Username == "" || form.Password == "" {
		fail(c, 400, "缺少用户名或密码")
		return
	}

	u, err := h.repo.GetByUsername(c.Request.Context(), form.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在和密码错误对外不区分
			fail(c, 401, "用户名或密码错误")
			return
		}
		failErr(c, 500, "登录失败，请稍后重试", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(form.Password)) != nil {
		fail(c, 401, "用户名或密码错误")
		return
	}

	data := gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"avatar":   u.Avatar,
		"role":     u.Role,
	}

	// 会话写入失败不阻塞登录，前端仍可用 user_id 回退路径
	if h.sessions != nil {
		token, err := h.sessions.Create(c.Request.Context(), u.ID)
		if err != nil {
			logger.Warn("签发会话失败", zap.Uint64("user_id", u.ID), zap.Error(err))
		} else {
			data["token"] = token
		}
	}

	ok(c, "登录成功", data)
}

// Info 用户信息
// GET /api/users/:id
func (h *Users) Info(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的用户ID")
		return
	}

	u, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, 404, "用户不存在")
			return
		}
		failErr(c, 500, "获取用户信息失败，请稍后重试", err)
		return
	}

	ok(c, "获取成功", u)
}

type profileForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

// UpdateProfile 更新用户资料
// PUT /api/users/:id
func (h *Users) UpdateProfile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的用户ID")
		return
	}

	// 登录用户只能改自己的资料
	if caller := identity.FromContext(c); caller != 0 && caller != id {
		fail(c, 403, "无权修改该用户")
		return
	}

	var form profileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		failErr(c, 400, "参数格式错误", err)
		return
	}

	fields := make(map[string]interface{})
	if form.Username != "" {
		fields["username"] = form.Username
	}
	if form.Email != "" {
		fields["email"] = form.Email
	}
	if form.Avatar != "" {
		fields["avatar"] = form.Avatar
	}
	if len(fields) == 0 {
		fail(c, 400, "没有需要更新的字段")
		return
	}

	affected, err := h.repo.UpdateProfile(c.Request.Context(), id, fields)
	if err != nil {
		failErr(c, 500, "更新用户信息失败", err)
		return
	}
	if affected == 0 {
		fail(c, 404, "用户不存在")
		return
	}

	ok(c, "更新成功", nil)
}

// UploadAvatar 头像上传
// POST /api/users/avatar  multipart 字段名 avatar
func (h *Users) UploadAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		fail(c, 400, "未选择文件")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		failErr(c, 500, "上传失败", err)
		return
	}
	defer f.Close()

	url, err := h.files.UploadFile(c.Request.Context(), f, fileHeader.Filename, "avatar")
	if err != nil {
		failErr(c, 500, "上传失败", err)
		return
	}

	// 已登录则顺手更新头像字段
	if uid := identity.FromContext(c); uid != 0 {
		if _, err := h.repo.UpdateProfile(c.Request.Context(), uid, map[string]interface{}{"avatar": url}); err != nil {
			logger.Warn("更新头像失败", zap.Uint64("user_id", uid), zap.Error(err))
		}
	}

	ok(c, "上传成功", gin.H{"url": url})
}
