package sidecar

import (
	"github.com/iceymoss/go-blog/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reconciler 定期用数据库行补齐缺失的文章文件
// 数据库是唯一可信源，文件只是可再生的镜像
type Reconciler struct {
	store *Store
	db    *gorm.DB
	cron  *cron.Cron
}

func NewReconciler(store *Store, db *gorm.DB) *Reconciler {
	return &Reconciler{
		store: store,
		db:    db,
		cron:  cron.New(),
	}
}

// Start 注册并启动补偿任务，cronExpr 为空时默认每小时
func (r *Reconciler) Start(cronExpr string) error {
	if cronExpr == "" {
		cronExpr = "@hourly"
	}
	if _, err := r.cron.AddFunc(cronExpr, r.Run); err != nil {
		return err
	}
	r.cron.Start()
	return nil
}

func (r *Reconciler) Stop() {
	r.cron.Stop()
}

// Run 扫描全部文章，重写缺失的文件，单篇失败不中断
func (r *Reconciler) Run() {
	type row struct {
		ID      uint64
		Content string
	}

	var rows []row
	if err := r.db.Table("articles").Select("id, content").Find(&rows).Error; err != nil {
		logger.Error("补偿任务扫描文章失败", zap.Error(err))
		return
	}

	restored := 0
	for _, a := range rows {
		if r.store.Exists(a.ID) {
			continue
		}
		if err := r.store.Write(a.ID, a.Content); err != nil {
			logger.Warn("补偿写入失败", zap.Uint64("article_id", a.ID), zap.Error(err))
			continue
		}
		restored++
	}
	if restored > 0 {
		logger.Info("补偿任务完成", zap.Int("restored", restored))
	}
}
