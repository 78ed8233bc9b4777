package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var ServiceConf *ServiceConfig

type ServerConfig struct {
	Port string `mapstructure:"port" json:"port"`
	Mode string `mapstructure:"mode" json:"mode"` // gin 运行模式：debug/release
}

// MysqlConfig mysql information configuration
type MysqlConfig struct {
	Driver   string `mapstructure:"driver" json:"driver"` // mysql 或 postgres
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"password"`
	DbName   string `mapstructure:"dbname" json:"dbname"`
	LogLevel string `mapstructure:"logLevel" json:"logLevel"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	PassWord string `mapstructure:"passWord" json:"passWord"`
}

type Upload struct {
	BasePath string `mapstructure:"basePath" json:"basePath"` // 本地存储路径，如 ./temp
	BaseURL  string `mapstructure:"baseURL" json:"baseURL"`   // 访问URL，如 http://localhost:8887/static
}

// Sidecar 文章 Markdown 文件的存放配置
type Sidecar struct {
	Dir           string `mapstructure:"dir" json:"dir"`                     // 每篇文章一个 <id>.md
	ReconcileCron string `mapstructure:"reconcileCron" json:"reconcileCron"` // 补偿任务的 cron 表达式
}

// Session 登录会话配置
type Session struct {
	TTLMinutes int `mapstructure:"ttlMinutes" json:"ttlMinutes"`
}

// Sensitive 评论敏感词过滤配置
type Sensitive struct {
	DictPath string `mapstructure:"dictPath" json:"dictPath"`
}

type ServiceConfig struct {
	Server    ServerConfig `mapstructure:"server" json:"server"`
	DB        MysqlConfig  `mapstructure:"mysql" json:"mysql"`
	RedisDB   RedisConfig  `mapstructure:"redis" json:"redis"`
	Upload    Upload       `mapstructure:"upload" json:"upload"`
	Sidecar   Sidecar      `mapstructure:"sidecar" json:"sidecar"`
	Session   Session      `mapstructure:"session" json:"session"`
	Sensitive Sensitive    `mapstructure:"sensitive" json:"sensitive"`
}

func InitConfig(dev string, configPath string) {
	//Instantiating an object
	v := viper.New()

	configFile := "configs/config-pro.yaml"
	if dev == "debug" {
		configFile = "configs/config-dev.yaml"
	} else if dev == "local" {
		configFile = "configs/config-local.yaml"
	}

	if configPath != "" {
		configFile = fmt.Sprintf("%s/config-%s.yaml", configPath, dev)
	}

	//Reading Configuration Files
	v.SetConfigFile(configFile)

	//Reading in a file
	if err := v.ReadInConfig(); err != nil {
		panic(err)
	}

	// 展开 YAML 中的 ${VAR} 环境变量
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.Contains(val, "${") {
			v.Set(key, os.ExpandEnv(val))
		}
	}

	//How to use the ServerConf object in other files - global variables
	if err := v.Unmarshal(&ServiceConf); err != nil {
		panic(err)
	}
}
