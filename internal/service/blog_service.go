package service

import (
	"blogcms/internal/cache"
	"blogcms/internal/entity"
	"blogcms/internal/entity/converter"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// pendingContentTTL bounds how long a stashed body waits for the reconciler.
	pendingContentTTL = cache.SecondsInOneDay * time.Second
)

var (
	// ErrContentNotStored means the metadata row exists but the content
	// document could not be written. The post stays pending_content.
	ErrContentNotStored = errors.New("blog content not stored")
	ErrBlogNotFound     = errors.New("blog not found")
)

// PendingContentKey is the cache hash holding the body of a post whose
// content write failed.
func PendingContentKey(blogID uint) string {
	return fmt.Sprintf("pending_content:%d", blogID)
}

// BlogService coordinates post writes across the relational store and the
// document store.
type BlogService struct {
	blogs    BlogStore
	contents ContentStore
	cache    Cache
	tags     *TagResolver
}

// NewBlogService 创建博客服务，cache 可以为 nil
func NewBlogService(blogs BlogStore, contents ContentStore, c Cache) *BlogService {
	return &BlogService{
		blogs:    blogs,
		contents: contents,
		cache:    c,
		tags:     NewTagResolver(blogs),
	}
}

// CreatePost writes the metadata row, resolves and links its tags, then
// writes the content document. The returned id is only non-zero once the
// content document exists.
func (s *BlogService) CreatePost(ctx context.Context, req entity.BlogCreateRequest) (uint, error) {
	blog := &entity.DbBlog{
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Abstract:      req.Abstract,
		Category:      req.Category,
		ContentStatus: entity.ContentStatusPending,
	}
	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		logrus.WithError(err).WithField("title", blog.Title).Error("failed to create blog")
		return 0, err
	}
	fields := logrus.Fields{"blog_id": blog.ID}

	for _, ref := range req.Tag {
		if _, ok := s.tags.ResolveTag(ctx, ref, blog.ID); !ok {
			logrus.WithFields(fields).WithField("tag", ref).Warn("tag skipped")
		}
	}
	s.invalidateBaseInfo(ctx)

	content := entity.BlogContent{BlogID: blog.ID, Title: blog.Title, Content: req.Content}
	if !s.contents.InsertContent(ctx, content) {
		s.stashContent(ctx, content)
		logrus.WithFields(fields).Error("blog content not stored, left pending")
		return 0, ErrContentNotStored
	}

	if err := s.blogs.MarkBlogContentComplete(ctx, blog.ID); err != nil {
		// the reconciler flips it once it sees the content document
		logrus.WithError(err).WithFields(fields).Warn("failed to mark blog complete")
	}
	return blog.ID, nil
}

// DeletePost soft-deletes a post and reports whether it was active.
func (s *BlogService) DeletePost(ctx context.Context, id uint) (bool, error) {
	changed, err := s.blogs.SoftDeleteBlog(ctx, id)
	if err != nil {
		return false, err
	}
	if changed {
		s.invalidateBaseInfo(ctx)
	}
	return changed, nil
}

// GetPost loads the content document of a post.
func (s *BlogService) GetPost(ctx context.Context, id uint) (*entity.BlogContent, error) {
	content, ok := s.contents.FindContent(ctx, id)
	if !ok || content == nil {
		return nil, ErrBlogNotFound
	}
	return content, nil
}

// GetPostsByPage returns one page of active posts with their tag ids.
func (s *BlogService) GetPostsByPage(ctx context.Context, params entity.BaseParams) (*entity.BlogPage, error) {
	params.Normalize(defaultPageSize, maxPageSize)
	result := &entity.BlogPage{
		Page:     params.Page,
		PageSize: params.PageSize,
		List:     []entity.BlogSummary{},
	}

	blogs, err := s.blogs.ListBlogs(ctx, int(params.Skip()), int(params.PageSize))
	if err != nil {
		return nil, err
	}
	if len(blogs) == 0 {
		return result, nil
	}

	ids := make([]uint, len(blogs))
	for i, b := range blogs {
		ids[i] = b.ID
	}
	links, err := s.blogs.ListBlogTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	tagsByBlog := make(map[uint][]uint, len(blogs))
	for _, link := range links {
		tagsByBlog[link.BlogID] = append(tagsByBlog[link.BlogID], link.TagID)
	}

	result.List = make([]entity.BlogSummary, len(blogs))
	for i := range blogs {
		result.List[i] = converter.BlogToSummary(&blogs[i], tagsByBlog[blogs[i].ID])
	}
	return result, nil
}

func (s *BlogService) stashContent(ctx context.Context, content entity.BlogContent) {
	if s.cache == nil {
		return
	}
	ok := s.cache.HashSet(ctx, PendingContentKey(content.BlogID), map[string]interface{}{
		"title":   content.Title,
		"content": content.Content,
	}, cache.WithTTL(pendingContentTTL))
	if !ok {
		logrus.WithField("blog_id", content.BlogID).Warn("failed to stash pending content")
	}
}

func (s *BlogService) invalidateBaseInfo(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, BaseInfoCacheKey)
}
