package service

import (
	"blogcms/internal/cache"
	"blogcms/internal/entity"
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"
)

type fakeBlogStore struct {
	mu    sync.Mutex
	blogs map[uint]*entity.DbBlog
	tags  map[uint]*entity.DbTag
	links map[[2]uint]struct{}

	nextBlogID uint
	nextTagID  uint

	createBlogErr error
	markErr       error
	linkErr       error
	blogTagCalls  int
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{
		blogs: make(map[uint]*entity.DbBlog),
		tags:  make(map[uint]*entity.DbTag),
		links: make(map[[2]uint]struct{}),
	}
}

func (f *fakeBlogStore) CreateBlog(ctx context.Context, blog *entity.DbBlog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createBlogErr != nil {
		return f.createBlogErr
	}
	f.nextBlogID++
	blog.ID = f.nextBlogID
	if blog.ContentStatus == "" {
		blog.ContentStatus = entity.ContentStatusPending
	}
	blog.UpdatedAt = time.Now()
	stored := *blog
	f.blogs[blog.ID] = &stored
	return nil
}

func (f *fakeBlogStore) SoftDeleteBlog(ctx context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blog, ok := f.blogs[id]
	if !ok || blog.IsDeleted {
		return false, nil
	}
	blog.IsDeleted = true
	return true, nil
}

func (f *fakeBlogStore) ListBlogs(ctx context.Context, skip, limit int) ([]entity.DbBlog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []entity.DbBlog
	for _, id := range f.sortedBlogIDs() {
		if b := f.blogs[id]; !b.IsDeleted {
			active = append(active, *b)
		}
	}
	if skip >= len(active) {
		return []entity.DbBlog{}, nil
	}
	end := skip + limit
	if end > len(active) {
		end = len(active)
	}
	return active[skip:end], nil
}

func (f *fakeBlogStore) ListBlogTags(ctx context.Context, blogIDs []uint) ([]entity.DbBlogTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blogTagCalls++
	wanted := make(map[uint]bool, len(blogIDs))
	for _, id := range blogIDs {
		wanted[id] = true
	}
	var out []entity.DbBlogTag
	for pair := range f.links {
		if wanted[pair[0]] {
			out = append(out, entity.DbBlogTag{BlogID: pair[0], TagID: pair[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BlogID != out[j].BlogID {
			return out[i].BlogID < out[j].BlogID
		}
		return out[i].TagID < out[j].TagID
	})
	return out, nil
}

func (f *fakeBlogStore) MarkBlogContentComplete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	if blog, ok := f.blogs[id]; ok {
		blog.ContentStatus = entity.ContentStatusComplete
	}
	return nil
}

func (f *fakeBlogStore) ListPendingBlogs(ctx context.Context, before time.Time, limit int) ([]entity.DbBlog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.DbBlog
	for _, id := range f.sortedBlogIDs() {
		b := f.blogs[id]
		if b.IsDeleted || b.ContentStatus != entity.ContentStatusPending || !b.UpdatedAt.Before(before) {
			continue
		}
		out = append(out, *b)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeBlogStore) FindTagByName(ctx context.Context, name string) (*entity.DbTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, tag := range f.tags {
		if tag.Name == name {
			copied := *tag
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBlogStore) CreateTag(ctx context.Context, tag *entity.DbTag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextTagID++
	tag.ID = f.nextTagID
	stored := *tag
	f.tags[tag.ID] = &stored
	return nil
}

func (f *fakeBlogStore) LinkBlogTag(ctx context.Context, blogID, tagID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links[[2]uint{blogID, tagID}] = struct{}{}
	return nil
}

func (f *fakeBlogStore) sortedBlogIDs() []uint {
	ids := make([]uint, 0, len(f.blogs))
	for id := range f.blogs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeBlogStore) blog(id uint) entity.DbBlog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.blogs[id]
}

// age moves a post's updated_at into the past.
func (f *fakeBlogStore) age(id uint, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blogs[id].UpdatedAt = f.blogs[id].UpdatedAt.Add(-d)
}

type fakeContentStore struct {
	mu   sync.Mutex
	docs map[uint]entity.BlogContent
	down bool
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{docs: make(map[uint]entity.BlogContent)}
}

func (f *fakeContentStore) InsertContent(ctx context.Context, content entity.BlogContent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false
	}
	if _, exists := f.docs[content.BlogID]; exists {
		return false
	}
	f.docs[content.BlogID] = content
	return true
}

func (f *fakeContentStore) FindContent(ctx context.Context, blogID uint) (*entity.BlogContent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, false
	}
	doc, ok := f.docs[blogID]
	if !ok {
		return nil, false
	}
	return &doc, true
}

func (f *fakeContentStore) UpsertContent(ctx context.Context, content entity.BlogContent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return false
	}
	f.docs[content.BlogID] = content
	return true
}

func (f *fakeContentStore) Ping(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.down
}

func (f *fakeContentStore) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

type fakeCache struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	down   bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		hashes: make(map[string]map[string]string),
	}
}

func (f *fakeCache) HashSet(ctx context.Context, name string, values map[string]interface{}, opts ...cache.Option) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hashes[name]
	if !ok {
		h = make(map[string]string)
		f.hashes[name] = h
	}
	for k, v := range values {
		h[k] = toString(v)
	}
	return true
}

func (f *fakeCache) HashGetAll(ctx context.Context, name string, opts ...cache.Option) (map[string]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hashes[name]
	if !ok || len(h) == 0 {
		return map[string]string{}, false
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out, true
}

func (f *fakeCache) Delete(ctx context.Context, name string, opts ...cache.Option) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.hashes[name]
	delete(f.hashes, name)
	return ok
}

func (f *fakeCache) Ping(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.down
}

func (f *fakeCache) has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.hashes[name]
	return ok
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

var errStoreDown = errors.New("store down")
