package handler

import (
	"errors"
	"strconv"

	"github.com/iceymoss/go-blog/internal/identity"
	"github.com/iceymoss/go-blog/internal/render"
	"github.com/iceymoss/go-blog/internal/repo"
	"github.com/iceymoss/go-blog/internal/sidecar"
	"github.com/iceymoss/go-blog/pkg/db/objects"
	"github.com/iceymoss/go-blog/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Articles struct {
	repo    *repo.ArticleRepo
	sidecar *sidecar.Store
}

func NewArticles(r *repo.ArticleRepo, s *sidecar.Store) *Articles {
	return &Articles{repo: r, sidecar: s}
}

// articleForm 创建/更新共用的请求体
type articleForm struct {
	Title      string  `json:"title"`
	Summary    string  `json:"summary"`
	Content    string  `json:"content"`
	CategoryID *uint64 `json:"category_id"`
	Status     string  `json:"status"`
	UserID     uint64  `json:"user_id"`
}

// validate 必填字段校验，返回按字段的错误表
func (f *articleForm) validate() map[string]string {
	fields := make(map[string]string)
	if f.Title == "" {
		fields["title"] = "标题不能为空"
	}
	if f.Summary == "" {
		fields["summary"] = "摘要不能为空"
	}
	if f.Content == "" {
		fields["content"] = "内容不能为空"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// articleDetail 详情返回：联查行 + sidecar 文件里的原文
type articleDetail struct {
	objects.ArticleRow
	Content string `json:"content"`
}

// List 文章列表
// GET /api/articles?page&pageSize&sort_by&sort_order&status&user_id
func (h *Articles) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	rows, total, err := h.repo.List(c.Request.Context(), repo.ListQuery{
		Page:      page,
		PageSize:  pageSize,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Status:    c.DefaultQuery("status", "all"),
		Identity:  identity.FromContext(c),
	})
	if err != nil {
		failErr(c, 500, "获取文章列表失败", err)
		return
	}
	okList(c, "获取成功", rows, total)
}

// Search 文章搜索
// GET /api/articles/search?title&subtitle&username&sortBy&user_id
func (h *Articles) Search(c *gin.Context) {
	q := repo.SearchQuery{
		Title:    c.Query("title"),
		Subtitle: c.Query("subtitle"),
		Username: c.Query("username"),
		SortBy:   c.Query("sortBy"),
		Identity: identity.FromContext(c),
	}

	// 一个词条都没有：不算错误，返回空结果并提示
	if q.Title == "" && q.Subtitle == "" && q.Username == "" {
		okList(c, "请输入搜索关键词", []objects.ArticleRow{}, 0)
		return
	}

	rows, total, err := h.repo.Search(c.Request.Context(), q)
	if err != nil {
		failErr(c, 500, "搜索文章失败", err)
		return
	}
	okList(c, "搜索成功", rows, total)
}

// Detail 文章详情，阅读量 +1，正文读 sidecar 文件
// GET /api/articles/:id?user_id
func (h *Articles) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的文章ID")
		return
	}

	row, err := h.repo.GetVisible(c.Request.Context(), id, identity.FromContext(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, 404, "文章不存在")
			return
		}
		failErr(c, 500, "获取文章详情失败", err)
		return
	}

	// 阅读量自增失败不影响本次读取
	if err := h.repo.IncrViewCount(c.Request.Context(), id); err != nil {
		logger.Warn("阅读量自增失败", zap.Uint64("article_id", id), zap.Error(err))
	}

	content, err := h.sidecar.Read(id)
	if err != nil {
		content = sidecar.Placeholder(row.Title)
	}

	ok(c, "获取成功", articleDetail{ArticleRow: *row, Content: content})
}

// Create 创建文章
// POST /api/articles
func (h *Articles) Create(c *gin.Context) {
	var form articleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		failErr(c, 400, "参数格式错误", err)
		return
	}
	if fields := form.validate(); fields != nil {
		failFields(c, "缺少必填字段", fields)
		return
	}

	html, err := render.ToHTML(form.Content)
	if err != nil {
		failErr(c, 500, "创建文章失败", err)
		return
	}

	// 登录身份优先，否则沿用前端传的 user_id，最后退回默认用户
	uid := identity.FromContext(c)
	if uid == 0 {
		uid = form.UserID
	}
	if uid == 0 {
		uid = 1
	}

	status := form.Status
	if status != objects.ArticleStatusPublished {
		status = objects.ArticleStatusDraft
	}

	a := &objects.Article{
		Title:       form.Title,
		Summary:     form.Summary,
		Content:     form.Content,
		HTMLContent: html,
		CategoryID:  form.CategoryID,
		UserID:      uid,
		Status:      status,
	}
	if err := h.repo.Create(c.Request.Context(), a); err != nil {
		failErr(c, 500, "创建文章失败", err)
		return
	}

	// 行已落库，文件写失败只记日志
	if err := h.sidecar.Write(a.ID, a.Content); err != nil {
		logger.Warn("保存文章文件失败", zap.Uint64("article_id", a.ID), zap.Error(err))
	}

	ok(c, "文章保存成功", a)
}

// Update 整行覆盖更新
// PUT /api/articles/:id
func (h *Articles) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的文章ID")
		return
	}

	var form articleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		failErr(c, 400, "参数格式错误", err)
		return
	}
	if fields := form.validate(); fields != nil {
		failFields(c, "缺少必填字段", fields)
		return
	}

	html, err := render.ToHTML(form.Content)
	if err != nil {
		failErr(c, 500, "更新文章失败", err)
		return
	}

	status := form.Status
	if status != objects.ArticleStatusPublished {
		status = objects.ArticleStatusDraft
	}

	fields := map[string]interface{}{
		"title":        form.Title,
		"summary":      form.Summary,
		"content":      form.Content,
		"html_content": html,
		"category_id":  form.CategoryID,
		"status":       status,
	}
	err = h.repo.Update(c.Request.Context(), id, identity.FromContext(c), fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, 404, "文章不存在")
			return
		}
		failErr(c, 500, "更新文章失败", err)
		return
	}

	if err := h.sidecar.Write(id, form.Content); err != nil {
		logger.Warn("保存文章文件失败", zap.Uint64("article_id", id), zap.Error(err))
	}

	ok(c, "文章更新成功", nil)
}

// Delete 删除文章，行删掉后尽力删除文件
// DELETE /api/articles/:id
func (h *Articles) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, 400, "无效的文章ID")
		return
	}

	affected, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		failErr(c, 500, "删除文章失败", err)
		return
	}
	if affected == 0 {
		fail(c, 404, "文章不存在")
		return
	}

	if err := h.sidecar.Remove(id); err != nil {
		logger.Warn("删除文章文件失败", zap.Uint64("article_id", id), zap.Error(err))
	}

	ok(c, "文章删除成功", nil)
}
