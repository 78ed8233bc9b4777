package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/iceymoss/go-blog/internal/handler"
	"github.com/iceymoss/go-blog/internal/identity"
	"github.com/iceymoss/go-blog/internal/repo"
	"github.com/iceymoss/go-blog/internal/session"
	"github.com/iceymoss/go-blog/internal/sidecar"
	conf "github.com/iceymoss/go-blog/pkg/config"
	"github.com/iceymoss/go-blog/pkg/db"
	"github.com/iceymoss/go-blog/pkg/logger"
	"github.com/iceymoss/go-blog/pkg/sensitive"
	"github.com/iceymoss/go-blog/pkg/storage"
	"github.com/iceymoss/go-blog/pkg/transaction"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	engine     *gin.Engine
	reconciler *sidecar.Reconciler
}

func NewServer() (*Server, error) {
	cfg := conf.ServiceConf

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	gdb := db.GetMysqlConn(db.MYSQL_DB_GO_BLOG)
	if gdb == nil {
		return nil, fmt.Errorf("数据库连接不可用")
	}
	sdb, err := db.GetSqlxConn(db.MYSQL_DB_GO_BLOG)
	if err != nil {
		return nil, err
	}

	articleRepo := repo.NewArticleRepo(gdb, sdb)
	userRepo := repo.NewUserRepo(gdb)
	categoryRepo := repo.NewCategoryRepo(gdb)
	commentRepo := repo.NewCommentRepo(gdb)

	sidecarStore := sidecar.NewStore(cfg.Sidecar.Dir)
	sessions := session.NewStore(db.GetRedisConn(), time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	files := storage.NewLocalStorage(cfg.Upload.BasePath, cfg.Upload.BaseURL)
	txm := transaction.NewManager(gdb)

	// 词库加载失败只是降级为不过滤
	word, err := sensitive.NewWord(cfg.Sensitive.DictPath)
	if err != nil {
		logger.Warn("加载敏感词词库失败，评论过滤关闭", zap.Error(err))
		word = nil
	}

	articles := handler.NewArticles(articleRepo, sidecarStore)
	users := handler.NewUsers(userRepo, txm, sessions, files)
	categories := handler.NewCategories(categoryRepo)
	comments := handler.NewComments(articleRepo, commentRepo, word)

	router := gin.Default()
	router.Use(cors.Default())

	// 上传的文件（头像等）
	router.Static("/static", cfg.Upload.BasePath)

	api := router.Group("/api", identity.Middleware(sessions))
	{
		api.GET("/articles", articles.List)
		api.GET("/articles/search", articles.Search)
		api.GET("/articles/:id", articles.Detail)
		api.POST("/articles", articles.Create)
		api.PUT("/articles/:id", articles.Update)
		api.DELETE("/articles/:id", articles.Delete)

		api.GET("/articles/:id/comments", comments.List)
		api.POST("/articles/:id/comments", comments.Create)

		api.GET("/categories", categories.List)

		api.POST("/users/register", users.Register)
		api.POST("/users/login", users.Login)
		api.POST("/users/avatar", users.UploadAvatar)
		api.GET("/users/:id", users.Info)
		api.PUT("/users/:id", users.UpdateProfile)
	}

	router.NoRoute(func(c *gin.Context) {
		// 为了安全，防止 API 404 返回了 HTML 页面
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{"error": "API not found"})
			return
		}
		c.Status(404)
	})

	return &Server{
		engine:     router,
		reconciler: sidecar.NewReconciler(sidecarStore, gdb),
	}, nil
}

func (s *Server) Run(addr string) error {
	// 启动 sidecar 补偿任务
	if err := s.reconciler.Start(conf.ServiceConf.Sidecar.ReconcileCron); err != nil {
		logger.Error("启动补偿任务失败", zap.Error(err))
	}

	// 启动 web server
	return s.engine.Run(addr)
}
