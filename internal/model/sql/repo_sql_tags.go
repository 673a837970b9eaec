package sql

import (
	"blogcms/internal/entity"
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const findTagByNameSQL = "SELECT id, name FROM tag WHERE name = ? ORDER BY id ASC LIMIT 1"

// FindTagByName looks a tag up by its exact trimmed name.
func (r *GormRepository) FindTagByName(ctx context.Context, name string) (*entity.DbTag, error) {
	if r == nil || r.client == nil {
		return nil, errNotInitialised
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("tag name is empty")
	}

	var tag entity.DbTag
	found, err := r.client.FetchOne(ctx, &tag, findTagByNameSQL, trimmed)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, gorm.ErrRecordNotFound
	}
	return &tag, nil
}

// CreateTag inserts a new tag.
func (r *GormRepository) CreateTag(ctx context.Context, tag *entity.DbTag) error {
	if tag == nil {
		return fmt.Errorf("tag is nil")
	}
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return fmt.Errorf("tag name is empty")
	}
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	return wrapErr("INSERT INTO tag", db.Create(tag).Error)
}

// LinkBlogTag inserts a blog/tag pair, ignoring pairs that already exist.
func (r *GormRepository) LinkBlogTag(ctx context.Context, blogID, tagID uint) error {
	if blogID == 0 || tagID == 0 {
		return fmt.Errorf("invalid blog tag pair %d/%d", blogID, tagID)
	}
	db, err := r.session(ctx)
	if err != nil {
		return err
	}
	link := entity.DbBlogTag{BlogID: blogID, TagID: tagID}
	err = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	return wrapErr("INSERT IGNORE INTO blog_tag", err)
}

// ListTags returns all tags ordered by id.
func (r *GormRepository) ListTags(ctx context.Context) ([]entity.DbTag, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var tags []entity.DbTag
	if err := db.Order("id ASC").Find(&tags).Error; err != nil {
		return nil, wrapErr("SELECT id, name FROM tag", err)
	}
	return tags, nil
}
