package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/iceymoss/go-blog/pkg/db/objects"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	require.NoError(t, err)

	// 内存库只能用一个连接，多开会各自拿到空库
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&objects.Article{},
		&objects.User{},
		&objects.Category{},
		&objects.Comment{},
	))

	return gdb, sqlx.NewDb(sqlDB, "sqlite3")
}

func seedUsers(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	users := []objects.User{
		{ID: 1, Username: "alice", Password: "x", Email: "alice@test.com"},
		{ID: 2, Username: "bob", Password: "x", Email: "bob@test.com"},
	}
	require.NoError(t, gdb.Create(&users).Error)
}

func seedArticle(t *testing.T, gdb *gorm.DB, a objects.Article) objects.Article {
	t.Helper()
	require.NoError(t, gdb.Create(&a).Error)
	return a
}

func TestListVisibility(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	seedArticle(t, gdb, objects.Article{Title: "公开文章", Summary: "s", UserID: 1, Status: objects.ArticleStatusPublished})
	seedArticle(t, gdb, objects.Article{Title: "alice的草稿", Summary: "s", UserID: 1, Status: objects.ArticleStatusDraft})
	seedArticle(t, gdb, objects.Article{Title: "bob的草稿", Summary: "s", UserID: 2, Status: objects.ArticleStatusDraft})

	// 匿名只能看到已发布
	rows, total, err := r.List(ctx, ListQuery{Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "公开文章", rows[0].Title)

	// alice 能看到公开文章和自己的草稿，看不到 bob 的
	rows, total, err = r.List(ctx, ListQuery{Identity: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, row := range rows {
		assert.NotEqual(t, "bob的草稿", row.Title)
	}

	// status=draft 只在可见范围内收窄：alice 只看到自己的草稿
	rows, total, err = r.List(ctx, ListQuery{Identity: 1, Status: objects.ArticleStatusDraft})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice的草稿", rows[0].Title)

	// 匿名显式查 draft 一无所获
	rows, total, err = r.List(ctx, ListQuery{Identity: 0, Status: objects.ArticleStatusDraft})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Len(t, rows, 0)
}

func TestListPaginationAndSort(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		seedArticle(t, gdb, objects.Article{
			Title:     fmt.Sprintf("第%d篇", i),
			Summary:   "s",
			UserID:    1,
			Status:    objects.ArticleStatusPublished,
			ViewCount: i * 10,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	// 默认按创建时间倒序
	rows, total, err := r.List(ctx, ListQuery{Page: 1, PageSize: 2, Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "第5篇", rows[0].Title)
	assert.Equal(t, "第4篇", rows[1].Title)

	// 第三页只剩一条
	rows, _, err = r.List(ctx, ListQuery{Page: 3, PageSize: 2, Identity: 0})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "第1篇", rows[0].Title)

	// 按阅读量升序
	rows, _, err = r.List(ctx, ListQuery{Page: 1, PageSize: 5, SortBy: "view_count", SortOrder: "asc", Identity: 0})
	require.NoError(t, err)
	assert.Equal(t, "第1篇", rows[0].Title)
	assert.Equal(t, "第5篇", rows[4].Title)

	// 未知排序字段退回 created_at，不报错
	_, _, err = r.List(ctx, ListQuery{SortBy: "id; DROP TABLE articles", Identity: 0})
	require.NoError(t, err)
	var count int64
	require.NoError(t, gdb.Model(&objects.Article{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

func TestSearchVisibility(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	seedArticle(t, gdb, objects.Article{Title: "golang 入门", Summary: "s", UserID: 1, Status: objects.ArticleStatusPublished})
	// bob 的草稿标题里也有关键词，对 alice 必须不可见
	seedArticle(t, gdb, objects.Article{Title: "golang 进阶", Summary: "s", UserID: 2, Status: objects.ArticleStatusDraft})

	rows, total, err := r.Search(ctx, SearchQuery{Title: "golang", Identity: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "golang 入门", rows[0].Title)

	// bob 自己能搜到两篇
	_, total, err = r.Search(ctx, SearchQuery{Title: "golang", Identity: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestSearchRelevance(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// 正文命中的更新，标题命中的更旧：relevance 下标题命中仍排在前
	seedArticle(t, gdb, objects.Article{
		Title: "别的标题", Summary: "s", Content: "正文里提到 foo 一次",
		UserID: 1, Status: objects.ArticleStatusPublished, CreatedAt: base.Add(time.Hour),
	})
	seedArticle(t, gdb, objects.Article{
		Title: "foo 教程", Summary: "s", Content: "正文",
		UserID: 1, Status: objects.ArticleStatusPublished, CreatedAt: base,
	})

	rows, total, err := r.Search(ctx, SearchQuery{Title: "foo", Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "foo 教程", rows[0].Title)

	// 显式按字段排序时不看命中位置
	rows, _, err = r.Search(ctx, SearchQuery{Title: "foo", SortBy: "created_at", Identity: 0})
	require.NoError(t, err)
	assert.Equal(t, "别的标题", rows[0].Title)
}

func TestSearchTermGroups(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	seedArticle(t, gdb, objects.Article{Title: "t1", Summary: "独家摘要", Content: "c", UserID: 1, Status: objects.ArticleStatusPublished})
	seedArticle(t, gdb, objects.Article{Title: "独家标题", Summary: "s", Content: "c", UserID: 2, Status: objects.ArticleStatusPublished})

	// subtitle 词条只命中摘要列
	rows, total, err := r.Search(ctx, SearchQuery{Subtitle: "独家", Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "t1", rows[0].Title)

	// username 词条只命中作者名
	_, total, err = r.Search(ctx, SearchQuery{Username: "bob", Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// 多个词条组 OR 组合
	_, total, err = r.Search(ctx, SearchQuery{Subtitle: "独家", Username: "bob", Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	// 没有词条：空结果不报错
	rows, total, err = r.Search(ctx, SearchQuery{Identity: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Len(t, rows, 0)
}

func TestGetVisible(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	draft := seedArticle(t, gdb, objects.Article{Title: "草稿", Summary: "s", UserID: 1, Status: objects.ArticleStatusDraft})

	// 作者本人可见
	row, err := r.GetVisible(ctx, draft.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "草稿", row.Title)

	// 他人与匿名拿到的都是未找到，不暴露存在性
	_, err = r.GetVisible(ctx, draft.ID, 2)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = r.GetVisible(ctx, draft.ID, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 不存在的 id 同样未找到
	_, err = r.GetVisible(ctx, 9999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIncrViewCount(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	a := seedArticle(t, gdb, objects.Article{Title: "t", Summary: "s", UserID: 1, Status: objects.ArticleStatusPublished})

	require.NoError(t, r.IncrViewCount(ctx, a.ID))
	require.NoError(t, r.IncrViewCount(ctx, a.ID))

	var got objects.Article
	require.NoError(t, gdb.Take(&got, a.ID).Error)
	assert.Equal(t, 2, got.ViewCount)
}

func TestUpdateSemantics(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	a := seedArticle(t, gdb, objects.Article{Title: "原标题", Summary: "s", Content: "c", UserID: 1, Status: objects.ArticleStatusPublished})

	fields := map[string]interface{}{"title": "新标题", "summary": "s", "content": "c", "status": objects.ArticleStatusPublished}

	// 不存在的 id
	err := r.Update(ctx, 9999, 1, fields)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 正常更新
	require.NoError(t, r.Update(ctx, a.ID, 1, fields))
	var got objects.Article
	require.NoError(t, gdb.Take(&got, a.ID).Error)
	assert.Equal(t, "新标题", got.Title)

	// 字段值与原值相同也算成功
	require.NoError(t, r.Update(ctx, a.ID, 1, fields))

	// 他人的草稿对更新者不可见，表现为未找到
	draft := seedArticle(t, gdb, objects.Article{Title: "草稿", Summary: "s", UserID: 2, Status: objects.ArticleStatusDraft})
	err = r.Update(ctx, draft.ID, 1, fields)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	gdb, sdb := newTestDB(t)
	seedUsers(t, gdb)
	r := NewArticleRepo(gdb, sdb)
	ctx := context.Background()

	a := seedArticle(t, gdb, objects.Article{Title: "t", Summary: "s", UserID: 1, Status: objects.ArticleStatusPublished})

	affected, err := r.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = r.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}
