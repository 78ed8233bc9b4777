package repo

import (
	"context"
	"fmt"

	"github.com/iceymoss/go-blog/pkg/db/objects"

	"gorm.io/gorm"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// ListByArticle 某篇文章的评论，带作者名，按时间正序
func (r *CommentRepo) ListByArticle(ctx context.Context, articleID uint64) ([]objects.CommentRow, error) {
	rows := make([]objects.CommentRow, 0)
	err := r.db.WithContext(ctx).
		Table("comments cm").
		Select("cm.id, cm.article_id, cm.user_id, u.username AS author_name, cm.content, cm.created_at").
		Joins("LEFT JOIN users u ON cm.user_id = u.id").
		Where("cm.article_id = ?", articleID).
		Order("cm.created_at ASC").
		Find(&rows).Error
	return rows, err
}

// Create 插入评论并同步文章的评论数
func (r *CommentRepo) Create(ctx context.Context, cm *objects.Comment) error {
	if err := r.db.WithContext(ctx).Create(cm).Error; err != nil {
		return fmt.Errorf("写入评论失败: %w", err)
	}
	return r.db.WithContext(ctx).
		Model(&objects.Article{}).
		Where("id = ?", cm.ArticleID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).Error
}
