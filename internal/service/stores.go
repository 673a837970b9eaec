package service

import (
	"blogcms/internal/cache"
	"blogcms/internal/entity"
	"context"
	"time"
)

// TagStore 标签的查找、创建与关联
type TagStore interface {
	FindTagByName(ctx context.Context, name string) (*entity.DbTag, error)
	CreateTag(ctx context.Context, tag *entity.DbTag) error
	LinkBlogTag(ctx context.Context, blogID, tagID uint) error
}

// BlogStore is the relational side of a post.
type BlogStore interface {
	TagStore

	CreateBlog(ctx context.Context, blog *entity.DbBlog) error
	SoftDeleteBlog(ctx context.Context, id uint) (bool, error)
	ListBlogs(ctx context.Context, skip, limit int) ([]entity.DbBlog, error)
	ListBlogTags(ctx context.Context, blogIDs []uint) ([]entity.DbBlogTag, error)
	MarkBlogContentComplete(ctx context.Context, id uint) error
	ListPendingBlogs(ctx context.Context, before time.Time, limit int) ([]entity.DbBlog, error)
}

// ContentStore is the document side of a post. Failures are reported as
// false, never as errors.
type ContentStore interface {
	InsertContent(ctx context.Context, content entity.BlogContent) bool
	FindContent(ctx context.Context, blogID uint) (*entity.BlogContent, bool)
	UpsertContent(ctx context.Context, content entity.BlogContent) bool
	Ping(ctx context.Context) bool
}

// Cache 可选的缓存，为 nil 时所有缓存逻辑被跳过
type Cache interface {
	HashSet(ctx context.Context, name string, values map[string]interface{}, opts ...cache.Option) bool
	HashGetAll(ctx context.Context, name string, opts ...cache.Option) (map[string]string, bool)
	Delete(ctx context.Context, name string, opts ...cache.Option) bool
	Ping(ctx context.Context) bool
}

// BaseStore provides the statistics and lookup lists.
type BaseStore interface {
	GetBaseInfo(ctx context.Context) (*entity.BaseInfo, error)
	ListCategories(ctx context.Context) ([]entity.DbCategory, error)
	ListTags(ctx context.Context) ([]entity.DbTag, error)
}

// UserStore 用户数据访问
type UserStore interface {
	CreateUser(ctx context.Context, user *entity.DbUser) error
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, params *entity.UserQuery) ([]entity.DbUser, *entity.Meta, error)
	DeactivateUser(ctx context.Context, id uint) (bool, error)
}
