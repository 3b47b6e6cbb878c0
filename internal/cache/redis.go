// Package cache provides an optional Redis-backed cache for masking results
// in server mode, so identical payloads under an identical configuration
// skip the detection pass.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ResultCache handles Redis-based caching of masked payloads.
type ResultCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	stats  *cacheStats
}

// cacheStats tracks cache performance metrics. Counters are atomic: Get
// runs concurrently from every request handler.
type cacheStats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// NewResultCache creates a new Redis-based result cache
func NewResultCache(config *Config, logger *zap.Logger) (*ResultCache, error) {
	// Parse Redis URL
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Configure connection pool
	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	cache := &ResultCache{
		client: client,
		config: config,
		logger: logger,
		stats:  &cacheStats{},
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Result cache initialized",
		zap.String("redis_url", maskRedisURL(config.RedisURL)),
		zap.Int("max_connections", config.MaxConnections),
		zap.Duration("default_ttl", config.DefaultTTL))

	return cache, nil
}

// ping tests the Redis connection
func (rc *ResultCache) ping(ctx context.Context) error {
	_, err := rc.client.Ping(ctx).Result()
	return err
}

// Get looks up the cached result for a payload under a configuration
// fingerprint. A miss, a lookup error, or a corrupted entry all report a
// miss; caching never turns into a hard failure for the caller.
func (rc *ResultCache) Get(ctx context.Context, fingerprint, payload string) (*Entry, bool) {
	key := rc.resultKey(fingerprint, payload)

	data, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		rc.stats.misses.Add(1)
		rc.logger.Debug("Cache miss", zap.String("key", key))
		return nil, false
	} else if err != nil {
		rc.logger.Error("Cache lookup failed", zap.Error(err))
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		rc.logger.Error("Failed to unmarshal cached entry", zap.Error(err))
		// Delete corrupted cache entry
		rc.client.Del(ctx, key)
		rc.stats.misses.Add(1)
		return nil, false
	}

	rc.stats.hits.Add(1)
	rc.logger.Debug("Cache hit", zap.String("key", key))
	return &entry, true
}

// Store caches a masked result with the configured TTL.
func (rc *ResultCache) Store(ctx context.Context, fingerprint, payload string, entry *Entry) error {
	key := rc.resultKey(fingerprint, payload)

	entry.CachedAt = time.Now()
	entry.TTL = int64(rc.config.DefaultTTL.Seconds())

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry for caching: %w", err)
	}

	if err := rc.client.Set(ctx, key, data, rc.config.DefaultTTL).Err(); err != nil {
		rc.logger.Error("Failed to cache result", zap.Error(err))
		return fmt.Errorf("failed to cache result: %w", err)
	}

	rc.logger.Debug("Result cached", zap.String("key", key))
	return nil
}

// GetStats returns cache performance statistics
func (rc *ResultCache) GetStats(ctx context.Context) (*Stats, error) {
	info, err := rc.client.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get Redis info: %w", err)
	}

	stats := &Stats{
		Hits:   rc.stats.hits.Load(),
		Misses: rc.stats.misses.Load(),
	}

	// Calculate hit rate
	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	// Parse memory usage from Redis info
	lines := strings.Split(info, "\r\n")
	for _, line := range lines {
		if strings.HasPrefix(line, "used_memory:") {
			if memStr := strings.TrimPrefix(line, "used_memory:"); memStr != "" {
				if mem, err := strconv.ParseInt(memStr, 10, 64); err == nil {
					stats.MemoryUsage = mem
				}
			}
		}
	}

	// Get total keys count
	keys, err := rc.client.DBSize(ctx).Result()
	if err == nil {
		stats.TotalKeys = keys
	}

	return stats, nil
}

// Clear removes all cached results under this cache's key prefix.
func (rc *ResultCache) Clear(ctx context.Context) error {
	pattern := rc.config.KeyPrefix + ":mask:*"

	iter := rc.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	// Delete keys in batches
	batchSize := 100
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		if err := rc.client.Del(ctx, keys[i:end]...).Err(); err != nil {
			rc.logger.Error("Failed to delete cache keys", zap.Error(err))
			return fmt.Errorf("failed to delete cache keys: %w", err)
		}
	}

	rc.logger.Info("Cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Close closes the Redis connection
func (rc *ResultCache) Close() error {
	if rc.client != nil {
		return rc.client.Close()
	}
	return nil
}

// resultKey builds a cache key from the configuration fingerprint and the
// payload. Only the hash touches Redis; raw payloads never become keys.
func (rc *ResultCache) resultKey(fingerprint, payload string) string {
	hasher := sha256.New()
	hasher.Write([]byte(fingerprint))
	hasher.Write([]byte{0})
	hasher.Write([]byte(payload))

	hash := hex.EncodeToString(hasher.Sum(nil))
	return fmt.Sprintf("%s:mask:%s", rc.config.KeyPrefix, hash[:32])
}

// maskRedisURL masks sensitive information in Redis URL for logging
func maskRedisURL(url string) string {
	if strings.Contains(url, "@") {
		parts := strings.Split(url, "@")
		if len(parts) >= 2 {
			userPart := parts[0]
			if strings.Contains(userPart, ":") {
				userParts := strings.Split(userPart, ":")
				if len(userParts) >= 3 {
					userParts[len(userParts)-1] = "***"
					parts[0] = strings.Join(userParts, ":")
				}
			}
			return strings.Join(parts, "@")
		}
	}
	return url
}
