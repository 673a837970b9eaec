package service

import (
	"blogcms/internal/cache"
	"blogcms/internal/entity"
	"blogcms/internal/entity/converter"
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	BaseInfoCacheKey = "base_info"
	baseInfoTTL      = 5 * time.Minute
)

// BaseService 站点统计与查找列表
type BaseService struct {
	store BaseStore
	cache Cache
}

// NewBaseService creates the service; c may be nil.
func NewBaseService(store BaseStore, c Cache) *BaseService {
	return &BaseService{store: store, cache: c}
}

// GetBaseInfo returns the post/category/tag counts and total views, served
// from the cache while it is fresh.
func (s *BaseService) GetBaseInfo(ctx context.Context) (*entity.BaseInfo, error) {
	if info, ok := s.cachedBaseInfo(ctx); ok {
		return info, nil
	}

	info, err := s.store.GetBaseInfo(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.HashSet(ctx, BaseInfoCacheKey, map[string]interface{}{
			"blog_count":     info.BlogCount,
			"category_count": info.CategoryCount,
			"tag_count":      info.TagCount,
			"total_view_num": info.TotalViewNum,
		}, cache.WithTTL(baseInfoTTL))
	}
	return info, nil
}

func (s *BaseService) cachedBaseInfo(ctx context.Context) (*entity.BaseInfo, bool) {
	if s.cache == nil {
		return nil, false
	}
	values, ok := s.cache.HashGetAll(ctx, BaseInfoCacheKey)
	if !ok {
		return nil, false
	}

	info := &entity.BaseInfo{}
	targets := map[string]*int64{
		"blog_count":     &info.BlogCount,
		"category_count": &info.CategoryCount,
		"tag_count":      &info.TagCount,
		"total_view_num": &info.TotalViewNum,
	}
	for field, target := range targets {
		raw, present := values[field]
		if !present {
			return nil, false
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			logrus.WithError(err).WithField("field", field).Warn("corrupt cached base info")
			return nil, false
		}
		*target = n
	}
	return info, true
}

// ListCategories 返回全部分类
func (s *BaseService) ListCategories(ctx context.Context) ([]entity.Lookup, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return converter.CategoriesToLookups(categories), nil
}

// ListTags 返回全部标签
func (s *BaseService) ListTags(ctx context.Context) ([]entity.Lookup, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	return converter.TagsToLookups(tags), nil
}
