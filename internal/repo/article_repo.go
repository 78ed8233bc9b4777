package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/iceymoss/go-blog/internal/visibility"
	"github.com/iceymoss/go-blog/pkg/db/objects"
	"github.com/iceymoss/go-blog/pkg/transaction"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// 列表/搜索共用的联查列
const articleColumns = "a.id, a.title, a.summary, a.category_id, c.name AS category_name, " +
	"a.user_id AS author_id, u.username AS author_name, a.status, a.view_count AS reading, " +
	"a.like_count, a.comment_count, a.created_at, a.updated_at"

// 排序字段白名单，字段名没法走绑定参数，进 SQL 前必须查表
// 未知值一律退回 created_at，绝不原样拼接
var sortColumns = map[string]string{
	"created_at":    "a.created_at",
	"updated_at":    "a.updated_at",
	"view_count":    "a.view_count",
	"like_count":    "a.like_count",
	"comment_count": "a.comment_count",
}

func sortColumn(field string) string {
	if col, ok := sortColumns[field]; ok {
		return col
	}
	return sortColumns["created_at"]
}

// SortRelevance 搜索的默认排序：按命中字段优先级
const SortRelevance = "relevance"

// ListQuery 文章列表查询参数
type ListQuery struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string // asc/desc
	Status    string // all/draft/published
	Identity  uint64
}

// SearchQuery 文章搜索参数，至少一个词条
type SearchQuery struct {
	Title    string // 命中 标题/摘要/正文
	Subtitle string // 仅命中摘要
	Username string // 仅命中作者名
	SortBy   string // relevance 或白名单字段
	Identity uint64
}

type ArticleRepo struct {
	db  *gorm.DB
	sdb *sqlx.DB
}

func NewArticleRepo(db *gorm.DB, sdb *sqlx.DB) *ArticleRepo {
	return &ArticleRepo{db: db, sdb: sdb}
}

// base 联查 + 可见性过滤，列表和详情共用
// 可见性谓词永远 AND 在其他条件之上
func (r *ArticleRepo) base(ctx context.Context, identity uint64) *gorm.DB {
	cond, args := visibility.Fragment("a", identity)
	return r.db.WithContext(ctx).
		Table("articles a").
		Joins("LEFT JOIN categories c ON a.category_id = c.id").
		Joins("LEFT JOIN users u ON a.user_id = u.id").
		Where(cond, args...)
}

// List 分页列表，返回当前页和满足过滤条件的总数
// status 过滤只会在可见范围内收窄：显式查 draft 也只能看到自己的草稿
func (r *ArticleRepo) List(ctx context.Context, q ListQuery) ([]objects.ArticleRow, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	order := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		order = "ASC"
	}

	filtered := func() *gorm.DB {
		tx := r.base(ctx, q.Identity)
		if q.Status != "" && q.Status != "all" {
			tx = tx.Where("a.status = ?", q.Status)
		}
		return tx
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计文章总数失败: %w", err)
	}

	rows := make([]objects.ArticleRow, 0, q.PageSize)
	err := filtered().
		Select(articleColumns).
		Order(sortColumn(q.SortBy) + " " + order).
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询文章列表失败: %w", err)
	}
	return rows, total, nil
}

// Search 多字段搜索，动态拼 SQL 走 sqlx
// 词条组之间 OR，整体与可见性谓词 AND，保证结果行一定满足可见性
func (r *ArticleRepo) Search(ctx context.Context, q SearchQuery) ([]objects.ArticleRow, int64, error) {
	visCond, visArgs := visibility.Fragment("a", q.Identity)

	var groups []string
	var groupArgs []interface{}
	if q.Title != "" {
		p := "%" + q.Title + "%"
		groups = append(groups, "(a.title LIKE ? OR a.summary LIKE ? OR a.content LIKE ?)")
		groupArgs = append(groupArgs, p, p, p)
	}
	if q.Subtitle != "" {
		groups = append(groups, "a.summary LIKE ?")
		groupArgs = append(groupArgs, "%"+q.Subtitle+"%")
	}
	if q.Username != "" {
		groups = append(groups, "u.username LIKE ?")
		groupArgs = append(groupArgs, "%"+q.Username+"%")
	}
	if len(groups) == 0 {
		return []objects.ArticleRow{}, 0, nil
	}

	where := visCond + " AND (" + strings.Join(groups, " OR ") + ")"
	whereArgs := append(append([]interface{}{}, visArgs...), groupArgs...)

	from := "FROM articles a " +
		"LEFT JOIN categories c ON a.category_id = c.id " +
		"LEFT JOIN users u ON a.user_id = u.id "

	countQuery := "SELECT COUNT(*) " + from + "WHERE " + where
	var total int64
	if err := r.sdb.GetContext(ctx, &total, r.sdb.Rebind(countQuery), whereArgs...); err != nil {
		return nil, 0, fmt.Errorf("统计搜索结果失败: %w", err)
	}

	orderBy, orderArgs := r.searchOrder(q)
	query := "SELECT " + articleColumns + " " + from + "WHERE " + where + " ORDER BY " + orderBy
	args := append(whereArgs, orderArgs...)

	rows := make([]objects.ArticleRow, 0)
	if err := r.sdb.SelectContext(ctx, &rows, r.sdb.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("搜索文章失败: %w", err)
	}
	return rows, total, nil
}

// searchOrder 搜索排序
// relevance：用第一个给出的词条探测命中位置，标题 > 摘要 > 正文 > 渲染后正文 > 作者名，
// 同档按创建时间倒序；显式字段排序走白名单
func (r *ArticleRepo) searchOrder(q SearchQuery) (string, []interface{}) {
	if q.SortBy != "" && q.SortBy != SortRelevance {
		return sortColumn(q.SortBy) + " DESC", nil
	}

	probe := q.Title
	if probe == "" {
		probe = q.Subtitle
	}
	if probe == "" {
		probe = q.Username
	}
	p := "%" + probe + "%"

	rank := "CASE " +
		"WHEN a.title LIKE ? THEN 1 " +
		"WHEN a.summary LIKE ? THEN 2 " +
		"WHEN a.content LIKE ? THEN 3 " +
		"WHEN a.html_content LIKE ? THEN 4 " +
		"WHEN u.username LIKE ? THEN 5 " +
		"ELSE 6 END"
	return rank + ", a.created_at DESC", []interface{}{p, p, p, p, p}
}

// GetVisible 按 id 和可见性取联查行
// 行不存在与行不可见同样返回 gorm.ErrRecordNotFound，不暴露他人草稿的存在性
func (r *ArticleRepo) GetVisible(ctx context.Context, id uint64, identity uint64) (*objects.ArticleRow, error) {
	var row objects.ArticleRow
	err := r.base(ctx, identity).
		Select(articleColumns).
		Where("a.id = ?", id).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// IncrViewCount 阅读量 +1，单条 UPDATE 由存储层自行串行化
// 读取成功后尽力而为，失败不影响详情返回
func (r *ArticleRepo) IncrViewCount(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&objects.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// Create 插入文章行
func (r *ArticleRepo) Create(ctx context.Context, a *objects.Article) error {
	return transaction.GetTransactionOrDB(ctx, r.db).Create(a).Error
}

// Update 整行覆盖更新
// 先按可见性取行，取不到（不存在或不可见）返回 gorm.ErrRecordNotFound；
// 取到后即便字段与原值相同也算更新成功
func (r *ArticleRepo) Update(ctx context.Context, id uint64, identity uint64, fields map[string]interface{}) error {
	cond, args := visibility.Fragment("", identity)
	var row objects.Article
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where(cond, args...).
		Take(&row).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&objects.Article{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete 删除文章行，返回受影响行数
func (r *ArticleRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&objects.Article{}, id)
	return res.RowsAffected, res.Error
}
