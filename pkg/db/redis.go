package db

import (
	"fmt"
	"sync"

	conf "github.com/iceymoss/go-blog/pkg/config"

	"github.com/go-redis/redis/v8"
)

const GO_BLOG_RDB = "main"

var redisConn = make(map[string]*redis.Client)
var redisMutex sync.RWMutex

func GetRedisConn() *redis.Client {
	redisMutex.RLock()
	rdb, ok := redisConn[GO_BLOG_RDB]
	redisMutex.RUnlock()
	if !ok {
		redisMutex.Lock()
		opt := redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.ServiceConf.RedisDB.Host, conf.ServiceConf.RedisDB.Port),
			Password: conf.ServiceConf.RedisDB.PassWord,
			DB:       0,
		}
		rdb = redis.NewClient(&opt)
		redisConn[GO_BLOG_RDB] = rdb
		redisMutex.Unlock()
	}
	return rdb
}
