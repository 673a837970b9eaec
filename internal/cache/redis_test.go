package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, prefix string) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := New(Options{Addr: mr.Addr(), Prefix: prefix})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestKey(t *testing.T) {
	withDefault := New(Options{Prefix: "blog"})
	bare := New(Options{})

	assert.Equal(t, "custom:info", withDefault.Key("info", "custom"))
	assert.Equal(t, "blog:info", withDefault.Key("info", ""))
	assert.Equal(t, "info", bare.Key("info", ""))
	assert.Equal(t, "custom:info", bare.Key("info", "custom"))
}

func TestHashSetAppliesDefaultTTL(t *testing.T) {
	client, mr := newTestClient(t, "blog")
	ctx := context.Background()

	require.True(t, client.HashSet(ctx, "base_info", map[string]interface{}{"blog_count": 3, "tag_count": 1}))
	assert.Equal(t, DefaultTTL, mr.TTL("blog:base_info"))

	value, ok := client.HashGet(ctx, "base_info", "blog_count")
	require.True(t, ok)
	assert.Equal(t, "3", value)

	all, ok := client.HashGetAll(ctx, "base_info")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"blog_count": "3", "tag_count": "1"}, all)

	_, ok = client.HashGet(ctx, "base_info", "missing")
	assert.False(t, ok)
	_, ok = client.HashGetAll(ctx, "absent")
	assert.False(t, ok)
}

func TestHashSetOptions(t *testing.T) {
	client, mr := newTestClient(t, "blog")
	ctx := context.Background()

	require.True(t, client.HashSet(ctx, "forever", map[string]interface{}{"a": "1"}, WithTTL(0)))
	assert.Equal(t, time.Duration(0), mr.TTL("blog:forever"))

	require.True(t, client.HashSet(ctx, "short", map[string]interface{}{"a": "1"}, WithTTL(time.Minute), WithPrefix("tmp")))
	assert.True(t, mr.Exists("tmp:short"))
	assert.False(t, mr.Exists("blog:short"))
	assert.Equal(t, time.Minute, mr.TTL("tmp:short"))

	n, ok := client.HashIncrBy(ctx, "counter", "views", 2)
	require.True(t, ok)
	assert.Equal(t, int64(2), n)
	n, _ = client.HashIncrBy(ctx, "counter", "views", 3)
	assert.Equal(t, int64(5), n)

	assert.False(t, client.HashSet(ctx, "empty", nil))
}

func TestLists(t *testing.T) {
	client, mr := newTestClient(t, "blog")
	ctx := context.Background()

	require.True(t, client.ListPush(ctx, "recent", []interface{}{"a", "b", "a", "c"}))
	assert.Equal(t, DefaultTTL, mr.TTL("blog:recent"))

	values, ok := client.ListRange(ctx, "recent", 0, -1)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "a", "c"}, values)

	assert.True(t, client.ListRemove(ctx, "recent", "a", 0))
	assert.False(t, client.ListRemove(ctx, "recent", "zzz", 0))

	values, _ = client.ListRange(ctx, "recent", 0, -1)
	assert.Equal(t, []string{"b", "c"}, values)
}

func TestSortedSetRange(t *testing.T) {
	client, mr := newTestClient(t, "blog")
	ctx := context.Background()

	_, err := mr.ZAdd("blog:hot", 5, "post:2")
	require.NoError(t, err)
	_, err = mr.ZAdd("blog:hot", 1, "post:1")
	require.NoError(t, err)

	members, ok := client.SortedSetRange(ctx, "hot")
	require.True(t, ok)
	assert.Equal(t, []ScoredMember{{Member: "post:1", Score: 1}, {Member: "post:2", Score: 5}}, members)
}

func TestExpireAndDelete(t *testing.T) {
	client, mr := newTestClient(t, "blog")
	ctx := context.Background()

	require.NoError(t, mr.Set("blog:token", "v"))
	assert.True(t, client.Expire(ctx, "token", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("blog:token"))
	assert.False(t, client.Expire(ctx, "absent", time.Hour))

	assert.True(t, client.Delete(ctx, "token"))
	assert.False(t, client.Delete(ctx, "token"))
}

func TestScanWalksNamespace(t *testing.T) {
	client, mr := newTestClient(t, "blog")
	ctx := context.Background()

	require.NoError(t, mr.Set("blog:pending_content:1", "plain"))
	mr.HSet("blog:pending_content:2", "title", "A", "content", "body")
	_, err := mr.Push("blog:pending_content:3", "ignored")
	require.NoError(t, err)
	require.NoError(t, mr.Set("other:pending_content:4", "foreign"))

	result := client.Scan(ctx, "pending_content:*")
	assert.Equal(t, map[string]interface{}{
		"pending_content:1": "plain",
		"pending_content:2": map[string]string{"title": "A", "content": "body"},
	}, result)
}

func TestUnreachableServerIsSoftFailure(t *testing.T) {
	client := New(Options{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	defer client.Close()
	ctx := context.Background()

	assert.False(t, client.Ping(ctx))
	assert.False(t, client.HashSet(ctx, "h", map[string]interface{}{"a": 1}))
	_, ok := client.HashGet(ctx, "h", "a")
	assert.False(t, ok)
	_, ok = client.ListRange(ctx, "l", 0, -1)
	assert.False(t, ok)
	assert.False(t, client.Delete(ctx, "h"))
	assert.Empty(t, client.Scan(ctx, "*"))
}
