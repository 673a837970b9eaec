package model

import (
	"blogcms/internal/entity"
	"blogcms/internal/model/sql"
	"context"
	"time"
)

// Repository 定义关系型数据库操作接口
type Repository interface {
	// 博客元数据
	CreateBlog(ctx context.Context, blog *entity.DbBlog) error
	SoftDeleteBlog(ctx context.Context, id uint) (bool, error)
	ListBlogs(ctx context.Context, skip, limit int) ([]entity.DbBlog, error)
	ListBlogTags(ctx context.Context, blogIDs []uint) ([]entity.DbBlogTag, error)
	MarkBlogContentComplete(ctx context.Context, id uint) error
	ListPendingBlogs(ctx context.Context, before time.Time, limit int) ([]entity.DbBlog, error)

	// 标签
	FindTagByName(ctx context.Context, name string) (*entity.DbTag, error)
	CreateTag(ctx context.Context, tag *entity.DbTag) error
	LinkBlogTag(ctx context.Context, blogID, tagID uint) error
	ListTags(ctx context.Context) ([]entity.DbTag, error)

	// 分类与统计
	ListCategories(ctx context.Context) ([]entity.DbCategory, error)
	EnsureCategory(ctx context.Context, name string) (*entity.DbCategory, error)
	GetBaseInfo(ctx context.Context) (*entity.BaseInfo, error)

	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeactivateUser(ctx context.Context, id uint) (bool, error)

	Ping(ctx context.Context) bool
	Close() error
}

var _ Repository = (*sql.GormRepository)(nil)
