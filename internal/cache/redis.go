package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	SecondsInOneMinute = 60
	SecondsInOneHour   = 60 * SecondsInOneMinute
	SecondsInOneDay    = 24 * SecondsInOneHour
	SecondsInOneWeek   = 7 * SecondsInOneDay
	SecondsInOneMonth  = 30 * SecondsInOneDay

	// DefaultTTL applies to HashSet and ListPush unless WithTTL overrides it.
	DefaultTTL = SecondsInOneMonth * time.Second

	defaultTimeout = time.Second
)

// Options describes how to reach the cache.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

type callOptions struct {
	ttl    time.Duration
	prefix string
}

// Option tweaks a single call.
type Option func(*callOptions)

// WithTTL sets the expiry applied after a write. Zero keeps the key forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *callOptions) { o.ttl = ttl }
}

// WithPrefix namespaces the key under prefix instead of the configured one.
func WithPrefix(prefix string) Option {
	return func(o *callOptions) { o.prefix = prefix }
}

// ScoredMember is one entry of a sorted set.
type ScoredMember struct {
	Member string
	Score  float64
}

// Client is a namespaced redis client. Failures are logged and reported as
// false or zero values.
type Client struct {
	mu   sync.Mutex
	opts Options
	rdb  *redis.Client
}

// New builds the client. No connection is made until the first call.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	return &Client{opts: opts}
}

func (c *Client) client() *redis.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rdb == nil {
		c.rdb = redis.NewClient(&redis.Options{
			Addr:         c.opts.Addr,
			Password:     c.opts.Password,
			DB:           c.opts.DB,
			DialTimeout:  c.opts.Timeout,
			ReadTimeout:  c.opts.Timeout,
			WriteTimeout: c.opts.Timeout,
		})
	}
	return c.rdb
}

// Key returns the namespaced key for name.
func (c *Client) Key(name, prefix string) string {
	switch {
	case prefix != "":
		return prefix + ":" + name
	case c.opts.Prefix != "":
		return c.opts.Prefix + ":" + name
	default:
		return name
	}
}

func (c *Client) resolve(name string, defaults callOptions, opts []Option) (string, callOptions) {
	o := defaults
	for _, opt := range opts {
		opt(&o)
	}
	return c.Key(name, o.prefix), o
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opts.Timeout)
}

func logFailure(err error, op, key string) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"op":  op,
		"key": key,
	}).Warn("cache: operation failed")
}

// expireAfterWrite runs as a separate call after the mutation; a crash in
// between leaves the key without expiry.
func (c *Client) expireAfterWrite(ctx context.Context, key string, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	if err := c.client().Expire(ctx, key, ttl).Err(); err != nil {
		logFailure(err, "expire", key)
		return false
	}
	return true
}

// Ping reports whether the server answers.
func (c *Client) Ping(ctx context.Context) bool {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.client().Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Warn("cache: ping failed")
		return false
	}
	return true
}

// HashSet writes fields into the hash name.
func (c *Client) HashSet(ctx context.Context, name string, values map[string]interface{}, opts ...Option) bool {
	key, o := c.resolve(name, callOptions{ttl: DefaultTTL}, opts)
	if len(values) == 0 {
		return false
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.client().HSet(ctx, key, values).Err(); err != nil {
		logFailure(err, "hset", key)
		return false
	}
	return c.expireAfterWrite(ctx, key, o.ttl)
}

// HashGet reads a single field of the hash name.
func (c *Client) HashGet(ctx context.Context, name, field string, opts ...Option) (string, bool) {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	value, err := c.client().HGet(ctx, key, field).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logFailure(err, "hget", key)
		}
		return "", false
	}
	return value, true
}

// HashGetAll reads every field of the hash name. A missing key yields an
// empty map and false.
func (c *Client) HashGetAll(ctx context.Context, name string, opts ...Option) (map[string]string, bool) {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	values, err := c.client().HGetAll(ctx, key).Result()
	if err != nil {
		logFailure(err, "hgetall", key)
		return map[string]string{}, false
	}
	return values, len(values) > 0
}

// HashIncrBy increments a numeric hash field and returns the new value.
func (c *Client) HashIncrBy(ctx context.Context, name, field string, delta int64, opts ...Option) (int64, bool) {
	key, o := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	value, err := c.client().HIncrBy(ctx, key, field, delta).Result()
	if err != nil {
		logFailure(err, "hincrby", key)
		return 0, false
	}
	c.expireAfterWrite(ctx, key, o.ttl)
	return value, true
}

// ListPush appends values to the list name.
func (c *Client) ListPush(ctx context.Context, name string, values []interface{}, opts ...Option) bool {
	key, o := c.resolve(name, callOptions{ttl: DefaultTTL}, opts)
	if len(values) == 0 {
		return false
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if err := c.client().RPush(ctx, key, values...).Err(); err != nil {
		logFailure(err, "rpush", key)
		return false
	}
	return c.expireAfterWrite(ctx, key, o.ttl)
}

// ListRange returns the elements between start and stop inclusive.
func (c *Client) ListRange(ctx context.Context, name string, start, stop int64, opts ...Option) ([]string, bool) {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	values, err := c.client().LRange(ctx, key, start, stop).Result()
	if err != nil {
		logFailure(err, "lrange", key)
		return nil, false
	}
	return values, true
}

// ListRemove removes up to count occurrences of value (0 removes all) and
// reports whether anything was removed.
func (c *Client) ListRemove(ctx context.Context, name string, value interface{}, count int64, opts ...Option) bool {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	removed, err := c.client().LRem(ctx, key, count, value).Result()
	if err != nil {
		logFailure(err, "lrem", key)
		return false
	}
	return removed > 0
}

// SortedSetRange returns every member of the sorted set with its score,
// lowest score first.
func (c *Client) SortedSetRange(ctx context.Context, name string, opts ...Option) ([]ScoredMember, bool) {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	members, err := c.client().ZRangeWithScores(ctx, key, 0, -1).Result()
	if err != nil {
		logFailure(err, "zrange", key)
		return nil, false
	}
	out := make([]ScoredMember, 0, len(members))
	for _, m := range members {
		member, _ := m.Member.(string)
		out = append(out, ScoredMember{Member: member, Score: m.Score})
	}
	return out, true
}

// Expire sets the expiry of name.
func (c *Client) Expire(ctx context.Context, name string, ttl time.Duration, opts ...Option) bool {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	ok, err := c.client().Expire(ctx, key, ttl).Result()
	if err != nil {
		logFailure(err, "expire", key)
		return false
	}
	return ok
}

// Delete removes name and reports whether it existed.
func (c *Client) Delete(ctx context.Context, name string, opts ...Option) bool {
	key, _ := c.resolve(name, callOptions{}, opts)
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.client().Del(ctx, key).Result()
	if err != nil {
		logFailure(err, "del", key)
		return false
	}
	return n > 0
}

// Scan walks every key of the namespace matching pattern. String keys map
// to their value and hash keys to a map of their fields; other types are
// skipped. Keys are returned without the namespace.
func (c *Client) Scan(ctx context.Context, pattern string, opts ...Option) map[string]interface{} {
	match, _ := c.resolve(pattern, callOptions{}, opts)
	namespace := strings.TrimSuffix(match, pattern)
	rdb := c.client()
	result := make(map[string]interface{})

	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			logFailure(err, "scan", match)
			return result
		}
		for _, key := range keys {
			name := strings.TrimPrefix(key, namespace)
			kind, err := rdb.Type(ctx, key).Result()
			if err != nil {
				logFailure(err, "type", key)
				continue
			}
			switch kind {
			case "string":
				if value, err := rdb.Get(ctx, key).Result(); err == nil {
					result[name] = value
				}
			case "hash":
				if value, err := rdb.HGetAll(ctx, key).Result(); err == nil {
					result[name] = value
				}
			}
		}
		cursor = next
		if cursor == 0 {
			return result
		}
	}
}

// Close releases the connection pool. The next call reconnects.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rdb == nil {
		return nil
	}
	err := c.rdb.Close()
	c.rdb = nil
	return err
}
