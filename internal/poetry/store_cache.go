package poetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wceng/shiwen/internal/platform/constants"
)

// cacheClient is the subset of [redis.Client] the cache layer needs.
// Narrowing the dependency keeps the wrapper testable without a live server.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedRepository is a read-through cache in front of a [Repository].
//
// Only the dynasty and type searches are cached — the two dimensions with a
// small, stable value space where identical pages are requested over and
// over. The key is (field value, limit, offset); the value is the full
// hydrated page plus its total. Entries expire after the configured TTL;
// there is no active invalidation because the catalog is ingested out of
// band and treated as append-only.
//
// Cache failures are never surfaced: a Redis error degrades to the wrapped
// repository with a warning log.
type CachedRepository struct {
	next   Repository
	cache  cacheClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRepository wraps next with a Redis-backed page cache.
func NewCachedRepository(next Repository, cache cacheClient, ttl time.Duration, logger *slog.Logger) *CachedRepository {
	return &CachedRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// cachedPage is the JSON shape stored in Redis for one search page.
type cachedPage struct {
	Poems []*Poem `json:"poems"`
	Total int     `json:"total"`
}

func (repository *CachedRepository) SearchByDynasty(context context.Context, dynasty string, limit, offset int) ([]*Poem, int, error) {
	key := fmt.Sprintf("%s%s:%d:%d", constants.RedisPrefixDynastyPage, dynasty, limit, offset)

	if poems, total, ok := repository.lookup(context, key); ok {
		return poems, total, nil
	}

	poems, total, err := repository.next.SearchByDynasty(context, dynasty, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	repository.store(context, key, poems, total)
	return poems, total, nil
}

func (repository *CachedRepository) SearchByType(context context.Context, poemType string, limit, offset int) ([]*Poem, int, error) {
	key := fmt.Sprintf("%s%s:%d:%d", constants.RedisPrefixTypePage, poemType, limit, offset)

	if poems, total, ok := repository.lookup(context, key); ok {
		return poems, total, nil
	}

	poems, total, err := repository.next.SearchByType(context, poemType, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	repository.store(context, key, poems, total)
	return poems, total, nil
}

// lookup reads and decodes one cached page. A miss, a Redis error, or a
// stale/corrupt payload all report ok=false.
func (repository *CachedRepository) lookup(context context.Context, key string) ([]*Poem, int, bool) {
	raw, err := repository.cache.Get(context, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			repository.logger.Warn("poetry_cache_get_failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}
		return nil, 0, false
	}

	page := cachedPage{}
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		repository.logger.Warn("poetry_cache_decode_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return nil, 0, false
	}

	return page.Poems, page.Total, true
}

// store encodes and writes one page with the configured TTL. Failures are
// logged and swallowed.
func (repository *CachedRepository) store(context context.Context, key string, poems []*Poem, total int) {
	encoded, err := json.Marshal(cachedPage{Poems: poems, Total: total})
	if err != nil {
		repository.logger.Warn("poetry_cache_encode_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return
	}

	if err := repository.cache.Set(context, key, encoded, repository.ttl).Err(); err != nil {
		repository.logger.Warn("poetry_cache_set_failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

// # Pass-through operations

func (repository *CachedRepository) GetByID(context context.Context, id string) (*Poem, error) {
	return repository.next.GetByID(context, id)
}

func (repository *CachedRepository) List(context context.Context, limit, offset int) ([]*Poem, int, error) {
	return repository.next.List(context, limit, offset)
}

func (repository *CachedRepository) SearchByTitle(context context.Context, title string, limit, offset int) ([]*Poem, int, error) {
	return repository.next.SearchByTitle(context, title, limit, offset)
}

func (repository *CachedRepository) SearchByAuthor(context context.Context, author string, limit, offset int) ([]*Poem, int, error) {
	return repository.next.SearchByAuthor(context, author, limit, offset)
}

func (repository *CachedRepository) SearchByFormat(context context.Context, format string, limit, offset int) ([]*Poem, int, error) {
	return repository.next.SearchByFormat(context, format, limit, offset)
}

func (repository *CachedRepository) SearchByTag(context context.Context, tagName string, limit, offset int) ([]*Poem, int, error) {
	return repository.next.SearchByTag(context, tagName, limit, offset)
}

func (repository *CachedRepository) FullTextSearch(context context.Context, keyword string, limit, offset int) ([]*Poem, int, error) {
	return repository.next.FullTextSearch(context, keyword, limit, offset)
}

func (repository *CachedRepository) CountAll(context context.Context) (int, error) {
	return repository.next.CountAll(context)
}
