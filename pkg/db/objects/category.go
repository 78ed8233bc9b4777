package objects

// Category 对应数据库表 categories，本服务只读
type Category struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(64);not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
