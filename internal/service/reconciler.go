package service

import (
	"blogcms/internal/entity"
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultReconcileInterval = time.Minute
	defaultReconcileGrace    = 5 * time.Minute
	defaultReconcileBatch    = 50
)

// ErrContentStoreUnavailable stops a pass before any post is judged; a
// missing document cannot be told apart from an unreachable store.
var ErrContentStoreUnavailable = errors.New("content store unavailable")

// ErrCacheUnavailable stops a pass when a configured cache does not answer;
// a stash miss would otherwise look like a post without content.
var ErrCacheUnavailable = errors.New("cache unavailable")

// ReconcilerOptions 对账任务参数
type ReconcilerOptions struct {
	Interval time.Duration
	Grace    time.Duration
	Batch    int
}

// Report summarises one reconcile pass.
type Report struct {
	Scanned   int `json:"scanned"`
	Completed int `json:"completed"`
	Restored  int `json:"restored"`
	Abandoned int `json:"abandoned"`
	Failed    int `json:"failed"`
}

// Reconciler settles posts stuck in pending_content: it completes those
// whose content exists, restores stashed bodies and soft-deletes the rest.
type Reconciler struct {
	blogs    BlogStore
	contents ContentStore
	cache    Cache
	opts     ReconcilerOptions
	now      func() time.Time
}

// NewReconciler 创建对账任务，cache 可以为 nil
func NewReconciler(blogs BlogStore, contents ContentStore, c Cache, opts ReconcilerOptions) *Reconciler {
	if opts.Interval <= 0 {
		opts.Interval = defaultReconcileInterval
	}
	if opts.Grace <= 0 {
		opts.Grace = defaultReconcileGrace
	}
	if opts.Batch <= 0 {
		opts.Batch = defaultReconcileBatch
	}
	return &Reconciler{
		blogs:    blogs,
		contents: contents,
		cache:    c,
		opts:     opts,
		now:      time.Now,
	}
}

// Run reconciles on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	logrus.WithField("interval", r.opts.Interval.String()).Info("content reconciler started")
	for {
		select {
		case <-ctx.Done():
			logrus.Info("content reconciler stopped")
			return
		case <-ticker.C:
			report, err := r.ReconcileOnce(ctx)
			if err != nil {
				logrus.WithError(err).Warn("reconcile pass failed")
				continue
			}
			if report.Scanned > 0 {
				logrus.WithFields(logrus.Fields{
					"scanned":   report.Scanned,
					"completed": report.Completed,
					"restored":  report.Restored,
					"abandoned": report.Abandoned,
					"failed":    report.Failed,
				}).Info("reconcile pass finished")
			}
		}
	}
}

// ReconcileOnce runs a single pass over at most Batch posts that have been
// pending for longer than Grace.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (Report, error) {
	var report Report
	if !r.contents.Ping(ctx) {
		return report, ErrContentStoreUnavailable
	}
	if r.cache != nil && !r.cache.Ping(ctx) {
		return report, ErrCacheUnavailable
	}

	cutoff := r.now().Add(-r.opts.Grace)
	pending, err := r.blogs.ListPendingBlogs(ctx, cutoff, r.opts.Batch)
	if err != nil {
		return report, err
	}

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Scanned++
		r.settle(ctx, &pending[i], &report)
	}
	return report, nil
}

func (r *Reconciler) settle(ctx context.Context, blog *entity.DbBlog, report *Report) {
	log := logrus.WithField("blog_id", blog.ID)

	if _, ok := r.contents.FindContent(ctx, blog.ID); ok {
		if err := r.blogs.MarkBlogContentComplete(ctx, blog.ID); err != nil {
			log.WithError(err).Warn("failed to mark blog complete")
			report.Failed++
			return
		}
		report.Completed++
		return
	}

	if stash, ok := r.stashed(ctx, blog); ok {
		if !r.contents.UpsertContent(ctx, stash) {
			log.Warn("failed to restore stashed content")
			report.Failed++
			return
		}
		if err := r.blogs.MarkBlogContentComplete(ctx, blog.ID); err != nil {
			log.WithError(err).Warn("failed to mark restored blog complete")
			report.Failed++
			return
		}
		r.cache.Delete(ctx, PendingContentKey(blog.ID))
		log.Info("stashed content restored")
		report.Restored++
		return
	}

	// 缓存在本轮中途断开时不能判定为无内容
	if r.cache != nil && !r.cache.Ping(ctx) {
		log.Warn("cache unreachable, pending blog left for the next pass")
		report.Failed++
		return
	}

	if _, err := r.blogs.SoftDeleteBlog(ctx, blog.ID); err != nil {
		log.WithError(err).Warn("failed to abandon pending blog")
		report.Failed++
		return
	}
	if r.cache != nil {
		r.cache.Delete(ctx, BaseInfoCacheKey)
	}
	log.Warn("pending blog abandoned without content")
	report.Abandoned++
}

func (r *Reconciler) stashed(ctx context.Context, blog *entity.DbBlog) (entity.BlogContent, bool) {
	if r.cache == nil {
		return entity.BlogContent{}, false
	}
	values, ok := r.cache.HashGetAll(ctx, PendingContentKey(blog.ID))
	if !ok {
		return entity.BlogContent{}, false
	}
	content, present := values["content"]
	if !present {
		return entity.BlogContent{}, false
	}
	title := values["title"]
	if title == "" {
		title = blog.Title
	}
	return entity.BlogContent{BlogID: blog.ID, Title: title, Content: content}, true
}
