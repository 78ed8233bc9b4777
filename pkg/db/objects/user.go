package objects

import (
	"time"
)

// User 对应数据库表 users
// Password 为 bcrypt 哈希，永不序列化给前端
type User struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"type:varchar(64);not null;uniqueIndex" json:"username"`
	Password string `gorm:"type:varchar(128);not null" json:"-"`
	Email    string `gorm:"type:varchar(128);not null;uniqueIndex" json:"email"`

	// 头像 URL，由上传接口写入
	Avatar string `gorm:"type:varchar(512)" json:"avatar"`

	// 角色：user/admin
	Role string `gorm:"type:varchar(16);default:user" json:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
