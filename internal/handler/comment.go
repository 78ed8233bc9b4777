package handler

import (
	"errors"
	"strconv"

	"github.com/iceymoss/go-blog/internal/identity"
	"github.com/iceymoss/go-blog/internal/repo"
	"github.com/iceymoss/go-blog/pkg/db/objects"
	"github.com/iceymoss/go-blog/pkg/sensitive"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Comments struct {
	articles *repo.ArticleRepo
	comments *repo.CommentRepo
	filter   *sensitive.Word
}

func NewComments(articles *repo.ArticleRepo, comments *repo.CommentRepo, filter *sensitive.Word) *Comments {
	return &Comments{articles: articles, comments: comments, filter: filter}
}

type commentForm struct {
	Content string `json:"content"`
}

// List 文章评论列表，文章本身必须对调用者可见
// GET /api/articles/:id/comments
func (h *Comments) List(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的文章ID")
		return
	}

	if _, err := h.articles.GetVisible(c.Request.Context(), id, identity.FromContext(c)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, 404, "文章不存在")
			return
		}
		failErr(c, 500, "获取评论失败", err)
		return
	}

	rows, err := h.comments.ListByArticle(c.Request.Context(), id)
	if err != nil {
		failErr(c, 500, "获取评论失败", err)
		return
	}
	okList(c, "获取成功", rows, int64(len(rows)))
}

// Create 发表评论，敏感词用 * 替换
// POST /api/articles/:id/comments
func (h *Comments) Create(c *gin.Context) {
	uid := identity.FromContext(c)
	if uid == 0 {
		fail(c, 401, "请先登录")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的文章ID")
		return
	}

	if _, err := h.articles.GetVisible(c.Request.Context(), id, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, 404, "文章不存在")
			return
		}
		failErr(c, 500, "发表评论失败", err)
		return
	}

	var form commentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		failErr(c, 400, "参数格式错误", err)
		return
	}
	if form.Content == "" {
		failFields(c, "缺少必填字段", map[string]string{"content": "评论内容不能为空"})
		return
	}

	content := form.Content
	if h.filter != nil {
		content = h.filter.Replace(content, '*')
	}

	cm := &objects.Comment{
		ArticleID: id,
		UserID:    uid,
		Content:   content,
	}
	if err := h.comments.Create(c.Request.Context(), cm); err != nil {
		failErr(c, 500, "发表评论失败", err)
		return
	}

	ok(c, "评论成功", cm)
}
