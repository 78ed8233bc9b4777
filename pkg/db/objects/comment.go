package objects

import (
	"time"
)

// Comment 对应数据库表 comments
type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ArticleID uint64    `gorm:"index;not null" json:"article_id"`
	UserID    uint64    `gorm:"index;not null" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (Comment) TableName() string {
	return "comments"
}

// CommentRow 联查出作者名的评论行
type CommentRow struct {
	ID         uint64    `gorm:"column:id" json:"id"`
	ArticleID  uint64    `gorm:"column:article_id" json:"article_id"`
	UserID     uint64    `gorm:"column:user_id" json:"user_id"`
	AuthorName *string   `gorm:"column:author_name" json:"author_name"`
	Content    string    `gorm:"column:content" json:"content"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}
