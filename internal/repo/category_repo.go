package repo

import (
	"context"

	"github.com/iceymoss/go-blog/pkg/db/objects"

	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

// List 分类列表，按名称升序
func (r *CategoryRepo) List(ctx context.Context) ([]objects.Category, error) {
	list := make([]objects.Category, 0)
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}
