package entity

import "time"

const (
	ContentStatusPending  = "pending_content"
	ContentStatusComplete = "complete"
)

// DbBlog is the metadata row of a blog post.
type DbBlog struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Title         string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Author        string    `gorm:"column:author;type:varchar(64);not null" json:"author"`
	Abstract      string    `gorm:"column:abstract;type:text;not null" json:"abstract"`
	Category      uint      `gorm:"column:category;index" json:"category"`
	ViewNum       int64     `gorm:"column:view_num;not null;default:0" json:"view_num"`
	ContentStatus string    `gorm:"column:content_status;type:varchar(32);index;not null;default:pending_content" json:"content_status"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
	IsDeleted     bool      `gorm:"column:is_deleted;not null;default:false" json:"-"`
}

// TableName 指定表名
func (DbBlog) TableName() string {
	return "blog"
}

// DbBlogTag 博客与标签的关联表
type DbBlogTag struct {
	BlogID uint `gorm:"column:blog_id;primaryKey;autoIncrement:false" json:"blog_id"`
	TagID  uint `gorm:"column:tag_id;primaryKey;autoIncrement:false" json:"tag_id"`
}

// TableName 指定表名
func (DbBlogTag) TableName() string {
	return "blog_tag"
}

// BlogContent is the long-form body kept in the document store.
type BlogContent struct {
	BlogID  uint   `bson:"blogId" json:"blogId"`
	Title   string `bson:"title" json:"title"`
	Content string `bson:"content" json:"content"`
}

// BlogCreateRequest is the payload of POST /blogs/.
type BlogCreateRequest struct {
	Title    string  `json:"title" binding:"required"`
	Author   string  `json:"author" binding:"required"`
	Abstract string  `json:"abstract" binding:"required"`
	Category uint    `json:"category"`
	Tag      TagRefs `json:"tag"`
	Content  string  `json:"content"`
}

// BlogSummary is one entry of a blog page.
type BlogSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Abstract      string    `json:"abstract"`
	Category      uint      `json:"category"`
	ViewNum       int64     `json:"view_num"`
	ContentStatus string    `json:"content_status"`
	UpdatedAt     time.Time `json:"updated_at"`
	Tag           []uint    `json:"tag"`
}

// BlogPage is the page envelope returned by GET /blogs/.
type BlogPage struct {
	Page     int64         `json:"page"`
	PageSize int64         `json:"page_size"`
	List     []BlogSummary `json:"list"`
}

// BlogCreated is returned after a post was fully stored.
type BlogCreated struct {
	ID uint `json:"id"`
}
