package objects

import (
	"time"
)

// 文章状态
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article 对应数据库表 articles
// content 为 Markdown 原文，html_content 在写入时由 Markdown 渲染得到，读取时不再重新渲染
type Article struct {
	// ID 主键
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	// 标题
	Title string `gorm:"type:varchar(255);not null" json:"title"`

	// 摘要
	Summary string `gorm:"type:varchar(512);not null" json:"summary"`

	// Markdown 原文
	Content string `gorm:"type:longtext" json:"content,omitempty"`

	// 渲染后的 HTML
	HTMLContent string `gorm:"column:html_content;type:longtext" json:"html_content,omitempty"`

	// 分类，可为空
	CategoryID *uint64 `gorm:"index" json:"category_id"`

	// 作者，创建后不可变
	UserID uint64 `gorm:"index;not null" json:"author_id"`

	// draft 仅作者本人可见，published 所有人可见
	Status string `gorm:"type:varchar(16);default:draft;index" json:"status"`

	// 阅读量，详情每次读取 +1
	ViewCount int `gorm:"default:0" json:"reading"`

	// 点赞数、评论数由外部维护
	LikeCount    int `gorm:"default:0" json:"like_count"`
	CommentCount int `gorm:"default:0" json:"comment_count"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "articles"
}

// ArticleRow 列表/搜索返回的联查行，带上分类名和作者名
type ArticleRow struct {
	ID           uint64    `gorm:"column:id" db:"id" json:"id"`
	Title        string    `gorm:"column:title" db:"title" json:"title"`
	Summary      string    `gorm:"column:summary" db:"summary" json:"summary"`
	CategoryID   *uint64   `gorm:"column:category_id" db:"category_id" json:"category_id"`
	CategoryName *string   `gorm:"column:category_name" db:"category_name" json:"category_name"`
	AuthorID     uint64    `gorm:"column:author_id" db:"author_id" json:"author_id"`
	AuthorName   *string   `gorm:"column:author_name" db:"author_name" json:"author_name"`
	Status       string    `gorm:"column:status" db:"status" json:"status"`
	Reading      int       `gorm:"column:reading" db:"reading" json:"reading"`
	LikeCount    int       `gorm:"column:like_count" db:"like_count" json:"like_count"`
	CommentCount int       `gorm:"column:comment_count" db:"comment_count" json:"comment_count"`
	CreatedAt    time.Time `gorm:"column:created_at" db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" db:"updated_at" json:"updated_at"`
}
