package entity

// DbTag 标签
type DbTag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"column:name;type:varchar(64);index;not null" json:"name"`
}

// TableName 指定表名
func (DbTag) TableName() string {
	return "tag"
}

// DbCategory 分类，由运维预先写入
type DbCategory struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"column:name;type:varchar(64);not null" json:"name"`
}

// TableName 指定表名
func (DbCategory) TableName() string {
	return "category"
}

// Lookup is an id/name pair used by the lookup endpoints.
type Lookup struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BaseInfo 博客统计信息
type BaseInfo struct {
	BlogCount     int64 `json:"blog_count"`
	CategoryCount int64 `json:"category_count"`
	TagCount      int64 `json:"tag_count"`
	TotalViewNum  int64 `json:"total_view_num"`
}
