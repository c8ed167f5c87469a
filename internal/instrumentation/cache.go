package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"consentgate/pkg/platform/sentinel"
)

// BundleCache stores fetched runtime bundles keyed by API key.
type BundleCache interface {
	Get(ctx context.Context, apiKey string) ([]byte, error)
	Set(ctx context.Context, apiKey string, bundle []byte) error
}

// MemoryBundleCache keeps bundles for the current process only.
type MemoryBundleCache struct {
	mu      sync.RWMutex
	bundles map[string][]byte
}

func NewMemoryBundleCache() *MemoryBundleCache {
	return &MemoryBundleCache{bundles: make(map[string][]byte)}
}

func (c *MemoryBundleCache) Get(_ context.Context, apiKey string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	bundle, ok := c.bundles[apiKey]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]byte{}, bundle...), nil
}

func (c *MemoryBundleCache) Set(_ context.Context, apiKey string, bundle []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bundles[apiKey] = append([]byte{}, bundle...)
	return nil
}

const bundleKeyPrefix = "runtime:bundle:"

// defaultBundleTTL bounds how long a cached bundle is served before the CDN is
// consulted again.
const defaultBundleTTL = 24 * time.Hour

// RedisBundleCache shares fetched bundles across instances.
type RedisBundleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBundleCache(client *redis.Client) *RedisBundleCache {
	return &RedisBundleCache{client: client, ttl: defaultBundleTTL}
}

func (c *RedisBundleCache) Get(ctx context.Context, apiKey string) ([]byte, error) {
	bundle, err := c.client.Get(ctx, bundleKeyPrefix+apiKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis bundle read: %w", err)
	}
	return bundle, nil
}

func (c *RedisBundleCache) Set(ctx context.Context, apiKey string, bundle []byte) error {
	if err := c.client.Set(ctx, bundleKeyPrefix+apiKey, bundle, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis bundle write: %w", err)
	}
	return nil
}
