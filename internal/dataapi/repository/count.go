package repository

import (
	"context"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/metrics"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

const DefaultCountCacheSize = 2048

// CountCache memoizes count query results. Count is a very expensive store call,
// so successful results are kept in a bounded LRU for the life of the process.
// Failures are never cached, and concurrent callers for the same uncached key
// share a single underlying query.
type CountCache struct {
	cache *lru.Cache
	group singleflight.Group
}

func NewCountCache(size int) (*CountCache, error) {
	if size <= 0 {
		size = DefaultCountCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CountCache{cache: cache}, nil
}

// GetCount runs the count query through the cache. Parameters are sorted by name
// before both key derivation and execution, so argument ordering never causes a
// miss for semantically identical queries.
func (c *CountCache) GetCount(
	ctx context.Context,
	client store.Client,
	queryText string,
	date string,
	params model.Parameters,
	mode store.ExecutionMode,
	pageSize int,
) (int, error) {
	sorted := params.Sorted()
	key := countKey(queryText, date, sorted)

	if cached, ok := c.cache.Get(key); ok {
		metrics.CountCacheHitsCounter.Inc()
		return cached.(int), nil
	}
	metrics.CountCacheMissesCounter.Inc()

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have populated the entry while we waited.
		if cached, ok := c.cache.Get(key); ok {
			return cached.(int), nil
		}
		count, err := fetchCount(ctx, client, queryText, sorted, mode, pageSize)
		if err != nil {
			return 0, err
		}
		c.cache.Add(key, count)
		return count, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(int), nil
}

func countKey(queryText string, date string, sorted model.Parameters) string {
	hash, _ := blake2b.New256(nil)
	hash.Write([]byte(queryText))
	hash.Write([]byte{0})
	hash.Write([]byte(date))
	for _, param := range sorted {
		hash.Write([]byte{0})
		hash.Write([]byte(param.Name))
		hash.Write([]byte{0})
		hash.Write([]byte(param.Value))
	}
	return hex.EncodeToString(hash.Sum(nil))
}

func fetchCount(
	ctx context.Context,
	client store.Client,
	queryText string,
	params model.Parameters,
	mode store.ExecutionMode,
	pageSize int,
) (int, error) {
	logger := store.NewLogger(queryText, params)
	cursor := store.WithLogging(client.Query(queryText, params, mode, pageSize, ""), logger)

	var items []interface{}
	for cursor.More() {
		page, err := cursor.NextPage(ctx)
		if err != nil {
			return 0, pageError(err, "count query failed")
		}
		items = append(items, page.Items...)
	}

	if len(items) != 1 {
		return 0, errors.WithMessagef(model.ErrNotAvailable, "count query returned %d rows", len(items))
	}
	count, ok := asCount(items[0])
	if !ok {
		return 0, errors.WithMessage(model.ErrNotAvailable, "count query returned a non-numeric row")
	}
	return count, nil
}

func asCount(item interface{}) (int, bool) {
	switch value := item.(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	case int64:
		return int(value), true
	default:
		return 0, false
	}
}
