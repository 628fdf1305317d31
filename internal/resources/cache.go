package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/w4l-ops/fba-replenish/internal/config"
)

const (
	mappingCacheKey = "sku_mapping:worksheet"
	defaultCacheTTL = time.Hour
)

// MappingCache holds the last fetched mapping worksheet so repeated runs
// within the TTL skip the spreadsheet round trip.
type MappingCache interface {
	Get(ctx context.Context) ([][]string, bool, error)
	Set(ctx context.Context, rows [][]string) error
	Invalidate(ctx context.Context) error
}

type redisMappingCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopMappingCache struct{}

func NewMappingCache(cfg config.CacheConfig) (MappingCache, error) {
	if !cfg.Enabled {
		return &noopMappingCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &redisMappingCache{client: client, ttl: ttl}, nil
}

func NewNoopMappingCache() MappingCache {
	return &noopMappingCache{}
}

func (c *redisMappingCache) Get(ctx context.Context) ([][]string, bool, error) {
	payload, err := c.client.Get(ctx, mappingCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var rows [][]string
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, fmt.Errorf("decode mapping cache: %w", err)
	}
	return rows, true, nil
}

func (c *redisMappingCache) Set(ctx context.Context, rows [][]string) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode mapping cache: %w", err)
	}
	if err := c.client.Set(ctx, mappingCacheKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisMappingCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, mappingCacheKey).Err()
}

func (n *noopMappingCache) Get(ctx context.Context) ([][]string, bool, error) {
	return nil, false, nil
}

func (n *noopMappingCache) Set(ctx context.Context, rows [][]string) error { return nil }

func (n *noopMappingCache) Invalidate(ctx context.Context) error { return nil }

func newRedisClient(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, 0, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return client, ttl, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
