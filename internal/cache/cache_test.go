package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (QueryCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(client, 5*time.Minute, time.Second, nil), mr
}

func TestKey(t *testing.T) {
	owner := uuid.New()
	key := Key(DomainTasks, owner, "page=1&limit=10")
	assert.Equal(t, "tasks:"+owner.String()+":page=1&limit=10", key)
}

func TestCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	owner := uuid.New()
	key := Key(DomainTasks, owner, "page=1")

	_, ok := c.Get(ctx, key)
	assert.False(t, ok, "expected miss before set")

	c.Set(ctx, key, []byte(`{"data":[]}`))

	data, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"data":[]}`), data)
}

func TestCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	key := Key(DomainTasks, uuid.New(), "page=1")

	c.Set(ctx, key, []byte("cached"))
	mr.FastForward(6 * time.Minute)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok, "expected entry to expire after TTL")
}

func TestInvalidateNamespace(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	owner := uuid.New()
	other := uuid.New()

	c.Set(ctx, Key(DomainTasks, owner, "page=1"), []byte("a"))
	c.Set(ctx, Key(DomainTasks, owner, "page=2"), []byte("b"))
	c.Set(ctx, Key(DomainTasks, other, "page=1"), []byte("c"))

	require.NoError(t, c.InvalidateNamespace(ctx, DomainTasks, owner))

	_, ok := c.Get(ctx, Key(DomainTasks, owner, "page=1"))
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key(DomainTasks, owner, "page=2"))
	assert.False(t, ok)

	// Another owner's namespace is untouched.
	data, ok := c.Get(ctx, Key(DomainTasks, other, "page=1"))
	require.True(t, ok)
	assert.Equal(t, []byte("c"), data)
}

func TestInvalidateEmptyNamespace(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	// Invalidating a namespace with no entries is a harmless no-op.
	assert.NoError(t, c.InvalidateNamespace(ctx, DomainTasks, uuid.New()))
}

func TestCacheFailOpenOnBackendLoss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	owner := uuid.New()
	key := Key(DomainTasks, owner, "page=1")

	c.Set(ctx, key, []byte("cached"))
	mr.Close()

	// Reads become misses, writes are swallowed, invalidation reports the
	// error for the caller to log.
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	c.Set(ctx, key, []byte("ignored"))
	assert.Error(t, c.InvalidateNamespace(ctx, DomainTasks, owner))
}

func TestNilClientYieldsNoopCache(t *testing.T) {
	ctx := context.Background()
	c := New(nil, time.Minute, time.Second, nil)

	_, isNoop := c.(NoopCache)
	assert.True(t, isNoop)

	key := Key(DomainTasks, uuid.New(), "page=1")
	c.Set(ctx, key, []byte("dropped"))
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.NoError(t, c.InvalidateNamespace(ctx, DomainTasks, uuid.New()))
}
