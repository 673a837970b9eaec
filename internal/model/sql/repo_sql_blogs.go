package sql

import (
	"blogcms/internal/entity"
	"context"
	"fmt"
	"time"
)

const softDeleteBlogSQL = "UPDATE blog SET is_deleted = ? WHERE id = ? AND is_deleted = ?"

// CreateBlog inserts the metadata row. The row starts in pending_content
// unless the caller set another status.
func (r *GormRepository) CreateBlog(ctx context.Context, blog *entity.DbBlog) error {
	if blog == nil {
		return fmt.Errorf("blog is nil")
	}
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	if blog.ContentStatus == "" {
		blog.ContentStatus = entity.ContentStatusPending
	}
	blog.IsDeleted = false
	blog.UpdatedAt = time.Now()
	return wrapErr("INSERT INTO blog", db.Create(blog).Error)
}

// SoftDeleteBlog flags an active post as deleted and reports whether a row
// changed.
func (r *GormRepository) SoftDeleteBlog(ctx context.Context, id uint) (bool, error) {
	if r == nil || r.client == nil {
		return false, errNotInitialised
	}
	if id == 0 {
		return false, fmt.Errorf("invalid blog id")
	}
	res, err := r.client.Execute(ctx, softDeleteBlogSQL, true, id, false)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// ListBlogs returns one page of active posts in primary key order.
func (r *GormRepository) ListBlogs(ctx context.Context, skip, limit int) ([]entity.DbBlog, error) {
	if r == nil || r.client == nil {
		return nil, errNotInitialised
	}
	if limit <= 0 {
		return []entity.DbBlog{}, nil
	}
	var blogs []entity.DbBlog
	filter := map[string]interface{}{"is_deleted": false}
	if err := r.client.FindPage(ctx, &blogs, entity.DbBlog{}.TableName(), filter, skip, limit); err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []entity.DbBlog{}
	}
	return blogs, nil
}

// ListBlogTags returns every association whose blog_id is in blogIDs.
func (r *GormRepository) ListBlogTags(ctx context.Context, blogIDs []uint) ([]entity.DbBlogTag, error) {
	if len(blogIDs) == 0 {
		return []entity.DbBlogTag{}, nil
	}
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var links []entity.DbBlogTag
	if err := db.Where("blog_id IN ?", blogIDs).Order("blog_id ASC, tag_id ASC").Find(&links).Error; err != nil {
		return nil, wrapErr("SELECT blog_id, tag_id FROM blog_tag", err)
	}
	return links, nil
}

// MarkBlogContentComplete flips a post to complete once its content
// document exists.
func (r *GormRepository) MarkBlogContentComplete(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("invalid blog id")
	}
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	res := db.Model(&entity.DbBlog{}).Where("id = ?", id).
		Update("content_status", entity.ContentStatusComplete)
	return wrapErr("UPDATE blog SET content_status", res.Error)
}

// ListPendingBlogs returns active posts still waiting for content that were
// last written before the cut-off.
func (r *GormRepository) ListPendingBlogs(ctx context.Context, before time.Time, limit int) ([]entity.DbBlog, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	var blogs []entity.DbBlog
	err = db.Where("content_status = ? AND is_deleted = ? AND updated_at < ?", entity.ContentStatusPending, false, before).
		Order("id ASC").
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, wrapErr("SELECT * FROM blog WHERE content_status", err)
	}
	return blogs, nil
}
