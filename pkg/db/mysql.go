package db

import (
	"fmt"
	"strconv"
	"sync"

	conf "github.com/iceymoss/go-blog/pkg/config"
	"github.com/iceymoss/go-blog/pkg/logger"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const MYSQL_DB_GO_BLOG = "go_blog"

var mysqlConn = make(map[string]*gorm.DB)
var mysqlMutex sync.RWMutex

// GetMysqlConn 获取数据库连接，首次调用时建立并缓存
// driver 由配置决定，默认 mysql，也支持 postgres
func GetMysqlConn(db string) *gorm.DB {
	mysqlMutex.RLock()
	conn, ok := mysqlConn[db]
	mysqlMutex.RUnlock()
	if !ok {
		mysqlMutex.Lock()
		defer mysqlMutex.Unlock()
		if conn, ok = mysqlConn[db]; ok {
			return conn
		}
		if conf.ServiceConf == nil {
			logger.Error("配置未初始化，无法连接数据库")
			return nil
		}

		userName := conf.ServiceConf.DB.User
		userPwd := conf.ServiceConf.DB.Password
		host := conf.ServiceConf.DB.Host
		port := strconv.Itoa(conf.ServiceConf.DB.Port)
		envLogLevel := conf.ServiceConf.DB.LogLevel

		var gormlevel gormLogger.LogLevel
		switch envLogLevel {
		case "debug", "info":
			gormlevel = gormLogger.Info
		case "warning":
			gormlevel = gormLogger.Warn
		default:
			gormlevel = gormLogger.Error
		}

		var dialector gorm.Dialector
		if conf.ServiceConf.DB.Driver == "postgres" {
			dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				host, userName, userPwd, db, port)
			dialector = postgres.Open(dsn)
		} else {
			dsn := userName + ":" + userPwd + "@tcp(" + host + ":" + port + ")/" + db + "?charset=utf8mb4&parseTime=True&loc=Local"
			dialector = mysql.Open(dsn)
		}

		dbConn, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormlevel),
		})
		if err != nil {
			logger.Error(err.Error())
			return nil
		}

		pool, pollErr := dbConn.DB()
		if pollErr != nil {
			logger.Error(pollErr.Error())
		} else {
			pool.SetMaxOpenConns(30)
			pool.SetMaxIdleConns(15)
		}

		if conf.ServiceConf.DB.LogLevel == "debug" {
			mysqlConn[db] = dbConn.Debug()
		} else {
			mysqlConn[db] = dbConn
		}
		conn = mysqlConn[db]
	}

	return conn
}

// GetSqlxConn 复用 gorm 的连接池，返回 sqlx 句柄
// 搜索的动态 SQL 走 sqlx，其余走 gorm
func GetSqlxConn(db string) (*sqlx.DB, error) {
	gdb := GetMysqlConn(db)
	if gdb == nil {
		return nil, fmt.Errorf("database %s is not available", db)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	driver := conf.ServiceConf.DB.Driver
	if driver == "" {
		driver = "mysql"
	}
	return sqlx.NewDb(sqlDB, driver), nil
}
