package cache

import (
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/andrewjordancampbell/TurnTogether/internal/books"
)

const SearchResultTTL = 10 * time.Minute

// SearchCache keeps recent book catalog results so repeated queries skip
// the upstream round trip. All methods are nil-receiver safe; the app
// runs without Redis.
type SearchCache struct {
	redis *RedisCache
}

func NewSearchCache(redis *RedisCache) *SearchCache {
	return &SearchCache{redis: redis}
}

func searchKey(query string) string {
	return "booksearch:" + strings.ToLower(strings.TrimSpace(query))
}

func (sc *SearchCache) Get(query string) ([]books.SearchResult, bool) {
	if sc == nil || sc.redis == nil {
		return nil, false
	}
	data, err := sc.redis.Get(searchKey(query))
	if err != nil || data == nil {
		return nil, false
	}

	var results []books.SearchResult
	if err := msgpack.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (sc *SearchCache) Set(query string, results []books.SearchResult) error {
	if sc == nil || sc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(results)
	if err != nil {
		return err
	}
	return sc.redis.Set(searchKey(query), data, SearchResultTTL)
}
