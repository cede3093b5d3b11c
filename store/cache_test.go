package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dcode-github/property_marketplace/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records how often List reaches the backing store.
type countingStore struct {
	PropertyStore
	lists int
}

func (c *countingStore) List(ctx context.Context, q ListQuery) ([]models.Property, error) {
	c.lists++
	return c.PropertyStore.List(ctx, q)
}

func newCached(t *testing.T) (*CachedProperties, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	backing := &countingStore{PropertyStore: NewMemory(Fixture()).Properties}
	return NewCachedProperties(backing, client, time.Minute, nil), backing, mr
}

func TestCachedPropertiesServesRepeatedReadsFromRedis(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCached(t)

	first, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	second, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)

	assert.Equal(t, 1, backing.lists)
	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, first[0].Coordinates, second[0].Coordinates)

	key := listCacheKey("0", ListQuery{Status: models.StatusActive})
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	// different query, different entry
	_, err = cached.List(ctx, ListQuery{OwnerID: "agent-abc123"})
	require.NoError(t, err)
	assert.Equal(t, 2, backing.lists)
}

func TestCachedPropertiesInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCached(t)

	require.NoError(t, mr.Set("unrelated", "keep"))

	_, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	require.NoError(t, cached.SetStatus(ctx, "4", models.StatusRejected))

	active, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, 2, backing.lists)
	assert.NotContains(t, ids(active), "4")
	assert.True(t, mr.Exists("unrelated"))

	require.NoError(t, cached.Delete(ctx, "1"))
	active, err = cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "5", "6"}, ids(active))
}

// writeDuringList runs write after the backing List has produced its result
// but before CachedProperties stores it.
type writeDuringList struct {
	PropertyStore
	write func()
}

func (s *writeDuringList) List(ctx context.Context, q ListQuery) ([]models.Property, error) {
	props, err := s.PropertyStore.List(ctx, q)
	if w := s.write; w != nil {
		s.write = nil
		w()
	}
	return props, err
}

func TestCachedPropertiesDropsResultReadBeforeWrite(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	backing := &writeDuringList{PropertyStore: NewMemory(Fixture()).Properties}
	cached := NewCachedProperties(backing, client, time.Minute, nil)
	backing.write = func() {
		require.NoError(t, cached.SetStatus(ctx, "4", models.StatusRejected))
	}

	stale, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Contains(t, ids(stale), "4")

	fresh, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	assert.NotContains(t, ids(fresh), "4")

	gen, err := mr.Get(cacheGenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
	assert.True(t, mr.Exists(listCacheKey("1", ListQuery{Status: models.StatusActive})))
}

func TestCachedPropertiesFailedWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	cached, backing, _ := newCached(t)

	_, err := cached.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.ErrorIs(t, cached.Delete(ctx, "missing"), ErrNotFound)
	_, err = cached.List(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, backing.lists)
}

func TestCachedPropertiesFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	cached, backing, mr := newCached(t)
	mr.Close()

	props, err := cached.List(ctx, ListQuery{Status: models.StatusActive})
	require.NoError(t, err)
	assert.Len(t, props, 6)
	assert.Equal(t, 1, backing.lists)

	p := models.Property{ID: "new", Status: models.StatusPending, CreatedAt: time.Now()}
	require.NoError(t, cached.Create(ctx, &p))
}
