package service

import (
	"blogcms/internal/entity"
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TagResolver maps a tag reference to a tag id and links it to a post.
type TagResolver struct {
	store TagStore

	// serialises find-or-create so two posts naming the same new tag in
	// parallel share one row
	mu sync.Mutex
}

// NewTagResolver 创建标签解析器
func NewTagResolver(store TagStore) *TagResolver {
	return &TagResolver{store: store}
}

// ResolveTag returns the id ref points at, creating the tag when ref names
// one that does not exist yet, and links it to postID. It reports false
// only when no id could be obtained; a failed link is logged.
func (r *TagResolver) ResolveTag(ctx context.Context, ref entity.TagRef, postID uint) (uint, bool) {
	if r == nil || r.store == nil {
		return 0, false
	}

	var tagID uint
	switch v := ref.(type) {
	case entity.ExistingTagRef:
		tagID = v.ID
	case entity.NewTagRef:
		id, err := r.findOrCreate(ctx, v.Name)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"blog_id": postID,
				"tag":     v.Name,
			}).Warn("failed to resolve tag")
			return 0, false
		}
		tagID = id
	default:
		return 0, false
	}
	if tagID == 0 {
		return 0, false
	}

	if err := r.store.LinkBlogTag(ctx, postID, tagID); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"blog_id": postID,
			"tag_id":  tagID,
		}).Warn("failed to link tag")
	}
	return tagID, true
}

func (r *TagResolver) findOrCreate(ctx context.Context, name string) (uint, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, errors.New("tag name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.store.FindTagByName(ctx, trimmed)
	if err == nil && existing != nil {
		return existing.ID, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	tag := &entity.DbTag{Name: trimmed}
	if err := r.store.CreateTag(ctx, tag); err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"tag_id": tag.ID, "name": trimmed}).Debug("tag created")
	return tag.ID, nil
}
