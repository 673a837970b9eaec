package sql

import (
	"blogcms/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ListCategories returns all categories ordered by id.
func (r *GormRepository) ListCategories(ctx context.Context) ([]entity.DbCategory, error) {
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}
	var categories []entity.DbCategory
	if err := db.Order("id ASC").Find(&categories).Error; err != nil {
		return nil, wrapErr("SELECT id, name FROM category", err)
	}
	return categories, nil
}

// EnsureCategory returns the category with the given name, creating it when
// missing.
func (r *GormRepository) EnsureCategory(ctx context.Context, name string) (*entity.DbCategory, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("category name is empty")
	}
	db, err := r.session(ctx)
	if err != nil {
		return nil, err
	}

	var category entity.DbCategory
	err = db.Where("name = ?", trimmed).Order("id ASC").First(&category).Error
	switch {
	case err == nil:
		return &category, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = entity.DbCategory{Name: trimmed}
		if err := db.Create(&category).Error; err != nil {
			return nil, wrapErr("INSERT INTO category", err)
		}
		return &category, nil
	default:
		return nil, wrapErr("SELECT id FROM category", err)
	}
}

var baseInfoStatements = []struct {
	sql    string
	column string
	assign func(info *entity.BaseInfo, value int64)
}{
	{"SELECT COUNT(*) AS count FROM blog WHERE is_deleted = ?", "count", func(i *entity.BaseInfo, v int64) { i.BlogCount = v }},
	{"SELECT COUNT(*) AS count FROM category", "count", func(i *entity.BaseInfo, v int64) { i.CategoryCount = v }},
	{"SELECT COUNT(*) AS count FROM tag", "count", func(i *entity.BaseInfo, v int64) { i.TagCount = v }},
	{"SELECT SUM(view_num) AS total FROM blog WHERE is_deleted = ?", "total", func(i *entity.BaseInfo, v int64) { i.TotalViewNum = v }},
}

// GetBaseInfo counts posts, categories and tags and sums post views.
func (r *GormRepository) GetBaseInfo(ctx context.Context) (*entity.BaseInfo, error) {
	if r == nil || r.client == nil {
		return nil, errNotInitialised
	}

	info := &entity.BaseInfo{}
	for _, stmt := range baseInfoStatements {
		var args []interface{}
		if strings.Contains(stmt.sql, "?") {
			args = append(args, false)
		}
		res, err := r.client.Execute(ctx, stmt.sql, args...)
		if err != nil {
			return nil, err
		}
		if len(res.Rows) > 0 {
			stmt.assign(info, res.Rows[0].Int64(stmt.column))
		}
	}
	return info, nil
}
