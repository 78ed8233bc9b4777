package handler

import (
	"github.com/iceymoss/go-blog/internal/repo"

	"github.com/gin-gonic/gin"
)

type Categories struct {
	repo *repo.CategoryRepo
}

func NewCategories(r *repo.CategoryRepo) *Categories {
	return &Categories{repo: r}
}

// List 分类列表
// GET /api/categories
func (h *Categories) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		failErr(c, 500, "获取分类列表失败", err)
		return
	}
	ok(c, "获取分类列表成功", list)
}
