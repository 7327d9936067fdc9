package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/extract"
	"github.com/inkognito-mcp/inkognito/internal/logger"
)

// ExtractionCache is a Redis-backed cache of document conversion results,
// keyed by a digest of the file content. Re-running a batch over unchanged
// PDFs skips the conversion service entirely.
type ExtractionCache struct {
	client *redis.Client
	config config.CacheConfig
	logger *logger.Logger
	stats  cacheStats
}

// cacheStats tracks cache performance
type cacheStats struct {
	hits   int64
	misses int64
}

// Entry is the cached form of an extraction result.
type Entry struct {
	Markdown  string            `json:"markdown"`
	PageCount int               `json:"page_count"`
	Method    string            `json:"method"`
	Metadata  map[string]string `json:"metadata"`
	CachedAt  time.Time         `json:"cached_at"`
}

// New creates the extraction cache and verifies the Redis connection.
func New(cfg config.CacheConfig, log *logger.Logger) (*ExtractionCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = cfg.MaxConnections
	opts.MinIdleConns = cfg.MinIdleConns

	cache := &ExtractionCache{
		client: redis.NewClient(opts),
		config: cfg,
		logger: log.WithComponent("cache"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := cache.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache.logger.Info("Extraction cache initialized",
		zap.String("redis_url", maskRedisURL(cfg.RedisURL)),
		zap.Duration("default_ttl", cfg.DefaultTTL),
	)

	return cache, nil
}

// Key derives the cache key for a file from its content digest, so a
// renamed-but-unchanged file still hits.
func (c *ExtractionCache) Key(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return c.config.KeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get looks up a cached extraction. A miss returns (nil, nil); cache
// errors are logged and degrade to a miss, never failing the extraction.
func (c *ExtractionCache) Get(ctx context.Context, key string) (*extract.Result, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.stats.misses++
		c.logger.Debug("Cache miss", zap.String("key", key))
		return nil, nil
	} else if err != nil {
		c.logger.Error("Cache lookup failed", zap.Error(err))
		return nil, nil
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.Error("Failed to unmarshal cache entry", zap.Error(err))
		// Delete corrupted cache entry
		c.client.Del(ctx, key)
		c.stats.misses++
		return nil, nil
	}

	c.stats.hits++
	c.logger.Debug("Cache hit", zap.String("key", key), zap.String("method", entry.Method))

	return &extract.Result{
		Markdown:  entry.Markdown,
		PageCount: entry.PageCount,
		Method:    entry.Method,
		Metadata:  entry.Metadata,
	}, nil
}

// Store caches an extraction result under key with the configured TTL.
func (c *ExtractionCache) Store(ctx context.Context, key string, result *extract.Result) error {
	entry := Entry{
		Markdown:  result.Markdown,
		PageCount: result.PageCount,
		Method:    result.Method,
		Metadata:  result.Metadata,
		CachedAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.config.DefaultTTL).Err(); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}

	return nil
}

// Stats returns hit/miss counters since startup.
func (c *ExtractionCache) Stats() (hits, misses int64) {
	return c.stats.hits, c.stats.misses
}

// Close releases the Redis connection pool.
func (c *ExtractionCache) Close() error {
	return c.client.Close()
}

// maskRedisURL hides credentials in logged connection strings.
func maskRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "redis://***"
	}
	if u.User != nil {
		u.User = url.User("***")
	}
	return u.String()
}
