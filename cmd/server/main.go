package main

import (
	"log"
	"os"

	"github.com/iceymoss/go-blog/internal/server"
	conf "github.com/iceymoss/go-blog/pkg/config"
	"github.com/iceymoss/go-blog/pkg/db"
	"github.com/iceymoss/go-blog/pkg/db/objects"
	"github.com/iceymoss/go-blog/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env 可以没有，有就加载
	_ = godotenv.Load()

	env := os.Getenv("GO_BLOG_ENV")
	if env == "" {
		env = "local"
	}
	conf.InitConfig(env, os.Getenv("GO_BLOG_CONFIG"))

	gdb := db.GetMysqlConn(db.MYSQL_DB_GO_BLOG)
	if gdb == nil {
		logger.Fatal("❌ 数据库连接失败")
	}
	if err := gdb.AutoMigrate(
		&objects.Article{},
		&objects.User{},
		&objects.Category{},
		&objects.Comment{},
	); err != nil {
		logger.Fatal("❌ AutoMigrate error", zap.Error(err))
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Fatal("❌ Server init error", zap.Error(err))
	}

	port := conf.ServiceConf.Server.Port
	if port == "" {
		port = ":8888"
	}

	log.Printf("🌐 Blog API running at http://localhost%s", port)
	if err := srv.Run(port); err != nil {
		logger.Fatal("❌ Server error", zap.Error(err))
	}
}
