package poetry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache is an in-memory cacheClient. Forced errors simulate a Redis
// outage on Get.
type fakeCache struct {
	data     map[string]string
	getErr   error
	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.getCalls++
	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	value, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.setCalls++
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

// countingRepository records how often each cached operation reaches the
// underlying store.
type countingRepository struct {
	poems        []*Poem
	dynastyCalls int
	typeCalls    int
}

func (r *countingRepository) GetByID(context.Context, string) (*Poem, error) { return nil, nil }

func (r *countingRepository) List(context.Context, int, int) ([]*Poem, int, error) {
	return nil, 0, nil
}

func (r *countingRepository) SearchByTitle(context.Context, string, int, int) ([]*Poem, int, error) {
	return nil, 0, nil
}

func (r *countingRepository) SearchByAuthor(context.Context, string, int, int) ([]*Poem, int, error) {
	return nil, 0, nil
}

func (r *countingRepository) SearchByDynasty(_ context.Context, dynasty string, _, _ int) ([]*Poem, int, error) {
	r.dynastyCalls++
	matches := make([]*Poem, 0)
	for _, poem := range r.poems {
		if poem.Dynasty == dynasty {
			matches = append(matches, poem)
		}
	}
	return matches, len(matches), nil
}

func (r *countingRepository) SearchByType(_ context.Context, poemType string, _, _ int) ([]*Poem, int, error) {
	r.typeCalls++
	matches := make([]*Poem, 0)
	for _, poem := range r.poems {
		if poem.Type == poemType {
			matches = append(matches, poem)
		}
	}
	return matches, len(matches), nil
}

func (r *countingRepository) SearchByFormat(context.Context, string, int, int) ([]*Poem, int, error) {
	return nil, 0, nil
}

func (r *countingRepository) SearchByTag(context.Context, string, int, int) ([]*Poem, int, error) {
	return nil, 0, nil
}

func (r *countingRepository) FullTextSearch(context.Context, string, int, int) ([]*Poem, int, error) {
	return nil, 0, nil
}

func (r *countingRepository) CountAll(context.Context) (int, error) { return len(r.poems), nil }

func cachedPoem(id, dynasty, poemType string) *Poem {
	return &Poem{
		ID:      id,
		Title:   "poem-" + id,
		Dynasty: dynasty,
		Type:    poemType,
		Contents: []ContentLine{
			{ID: 1, PoemID: id, Content: "line one", OrderIndex: 0},
		},
	}
}

func TestCachedRepository_SearchByDynasty_MissThenHit(t *testing.T) {
	repo := &countingRepository{poems: []*Poem{
		cachedPoem("a", "唐", "诗"),
		cachedPoem("b", "宋", "词"),
	}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, slog.New(slog.DiscardHandler))

	// First call misses and populates the cache.
	poems, total, err := cached.SearchByDynasty(context.Background(), "唐", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, poems, 1)
	assert.Equal(t, "a", poems[0].ID)
	assert.Equal(t, 1, repo.dynastyCalls)
	assert.Equal(t, 1, cache.setCalls)

	// Second identical call is served from Redis, the store is not touched.
	poems, total, err = cached.SearchByDynasty(context.Background(), "唐", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, poems, 1)
	assert.Equal(t, "a", poems[0].ID)
	assert.Equal(t, "line one", poems[0].Contents[0].Content)
	assert.Equal(t, 1, repo.dynastyCalls)
}

func TestCachedRepository_KeyIncludesPageWindow(t *testing.T) {
	repo := &countingRepository{poems: []*Poem{cachedPoem("a", "唐", "诗")}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, slog.New(slog.DiscardHandler))

	_, _, err := cached.SearchByDynasty(context.Background(), "唐", 10, 0)
	require.NoError(t, err)
	_, _, err = cached.SearchByDynasty(context.Background(), "唐", 10, 10)
	require.NoError(t, err)

	// Different windows are distinct entries, both computed by the store.
	assert.Equal(t, 2, repo.dynastyCalls)
	assert.Len(t, cache.data, 2)
}

func TestCachedRepository_SearchByType_CachedIndependently(t *testing.T) {
	repo := &countingRepository{poems: []*Poem{
		cachedPoem("a", "唐", "诗"),
		cachedPoem("b", "唐", "词"),
	}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, slog.New(slog.DiscardHandler))

	for range 2 {
		poems, total, err := cached.SearchByType(context.Background(), "词", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, poems, 1)
		assert.Equal(t, "b", poems[0].ID)
	}
	assert.Equal(t, 1, repo.typeCalls)
}

func TestCachedRepository_RedisErrorFallsThrough(t *testing.T) {
	repo := &countingRepository{poems: []*Poem{cachedPoem("a", "唐", "诗")}}
	cache := newFakeCache()
	cache.getErr = errors.New("connection refused")
	cached := NewCachedRepository(repo, cache, time.Minute, slog.New(slog.DiscardHandler))

	// A Redis outage must degrade to the store, not fail the request.
	for range 2 {
		poems, total, err := cached.SearchByDynasty(context.Background(), "唐", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, poems, 1)
	}
	assert.Equal(t, 2, repo.dynastyCalls)
}

func TestCachedRepository_CorruptEntryIsAMiss(t *testing.T) {
	repo := &countingRepository{poems: []*Poem{cachedPoem("a", "唐", "诗")}}
	cache := newFakeCache()
	cache.data["poetry:dynasty:唐:10:0"] = "{not json"
	cached := NewCachedRepository(repo, cache, time.Minute, slog.New(slog.DiscardHandler))

	poems, total, err := cached.SearchByDynasty(context.Background(), "唐", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, poems, 1)
	assert.Equal(t, 1, repo.dynastyCalls)
}

func TestCachedRepository_UncachedOpsBypassRedis(t *testing.T) {
	repo := &countingRepository{poems: []*Poem{cachedPoem("a", "唐", "诗")}}
	cache := newFakeCache()
	cached := NewCachedRepository(repo, cache, time.Minute, slog.New(slog.DiscardHandler))

	_, err := cached.CountAll(context.Background())
	require.NoError(t, err)
	_, _, err = cached.SearchByTitle(context.Background(), "poem", 10, 0)
	require.NoError(t, err)

	assert.Zero(t, cache.getCalls)
	assert.Zero(t, cache.setCalls)
}
