package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fivetwenty-io/graph-client/internal/constants"
)

// CacheType names a cache backend.
type CacheType string

const (
	// CacheTypeMemory keeps responses in process memory.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS stores responses in a NATS JetStream key-value bucket
	// shared between processes.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeNone disables response caching.
	CacheTypeNone CacheType = "none"
)

// defaultSweepInterval is how often the memory backend sweeps expired
// entries when the configuration does not set an interval.
const defaultSweepInterval = "1m"

// Errors reported by cache construction and chain lookups.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig selects a cache backend and carries its settings. Only the
// section matching Type is read.
type CacheConfig struct {
	// Type selects the backend.
	Type CacheType

	// Memory configures the in-process backend.
	Memory *MemoryCacheConfig

	// NATS configures the shared JetStream KV backend.
	NATS *NATSKVConfig

	// Options apply to whichever backend is built. Nil means
	// DefaultCacheOptions.
	Options *CacheOptions
}

// MemoryCacheConfig configures the in-process backend.
type MemoryCacheConfig struct {
	// MaxSize caps the number of entries held at once.
	MaxSize int

	// CleanupInterval is how often expired entries are swept during
	// writes, as a duration string such as "30s" or "1m". Empty leaves
	// only lazy expiry on reads.
	CleanupInterval string
}

// DefaultCacheConfig returns the configuration used when callers pass nil:
// an in-process cache sized for a single client.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: defaultSweepInterval,
		},
		Options: DefaultCacheOptions(),
	}
}

// NewCacheFromConfig builds the backend the configuration names. A nil
// configuration builds the default in-process cache.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		memory := config.Memory
		if memory == nil && config.Options != nil {
			memory = &MemoryCacheConfig{
				MaxSize:         config.Options.MaxSize,
				CleanupInterval: defaultSweepInterval,
			}
		}

		return NewMemoryCacheFromConfig(memory)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCacheType, config.Type)
	}
}

// NewMemoryCacheFromConfig builds the in-process backend. CleanupInterval
// must be a valid duration string; empty disables the periodic sweep.
func NewMemoryCacheFromConfig(config *MemoryCacheConfig) (Cache, error) {
	if config == nil {
		config = &MemoryCacheConfig{
			MaxSize:         constants.DefaultCacheSize,
			CleanupInterval: defaultSweepInterval,
		}
	}

	if config.CleanupInterval == "" {
		return NewMemoryCache(config.MaxSize), nil
	}

	interval, err := time.ParseDuration(config.CleanupInterval)
	if err != nil {
		return nil, fmt.Errorf("parsing cleanup interval: %w", err)
	}

	return NewMemoryCacheWithSweep(config.MaxSize, interval), nil
}

// NoOpCache satisfies Cache without storing anything. It backs clients
// that run with caching turned off.
type NoOpCache struct{}

// NewNoOpCache creates a cache that never stores entries.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get reports every key as a miss.
func (c *NoOpCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set discards the entry.
func (c *NoOpCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(ctx context.Context) error {
	return nil
}

// Has reports false for every key.
func (c *NoOpCache) Has(ctx context.Context, key string) bool {
	return false
}

// CacheChain layers cache backends from fastest to slowest, such as a
// memory cache in front of a shared NATS bucket. Reads stop at the first
// hit; writes, deletes and clears go to every level.
type CacheChain struct {
	caches []Cache
}

// NewCacheChain chains backends in lookup order, fastest first.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{
		caches: caches,
	}
}

// Get returns the entry from the first level holding it and promotes that
// entry into the levels in front of it.
func (c *CacheChain) Get(ctx context.Context, key string) (*CacheEntry, error) {
	for level, cache := range c.caches {
		entry, err := cache.Get(ctx, key)
		if err != nil {
			continue
		}

		c.promote(ctx, key, entry, level)

		return entry, nil
	}

	return nil, ErrKeyNotFoundInAnyCache
}

// promote copies an entry into every level before the one it was found at.
// Store failures during promotion are not reported.
func (c *CacheChain) promote(ctx context.Context, key string, entry *CacheEntry, level int) {
	for _, cache := range c.caches[:level] {
		_ = cache.Set(ctx, key, entry)
	}
}

// Set stores the entry in every level.
func (c *CacheChain) Set(ctx context.Context, key string, entry *CacheEntry) error {
	var errs []error

	for _, cache := range c.caches {
		err := cache.Set(ctx, key, entry)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Delete removes the key from every level.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var errs []error

	for _, cache := range c.caches {
		err := cache.Delete(ctx, key)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Clear empties every level.
func (c *CacheChain) Clear(ctx context.Context) error {
	var errs []error

	for _, cache := range c.caches {
		err := cache.Clear(ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Has reports whether any level holds a live entry for the key.
func (c *CacheChain) Has(ctx context.Context, key string) bool {
	for _, cache := range c.caches {
		if cache.Has(ctx, key) {
			return true
		}
	}

	return false
}

// Close closes every level that holds external connections, such as the
// NATS backend. In-process levels are left alone.
func (c *CacheChain) Close() error {
	var errs []error

	for _, cache := range c.caches {
		closer, ok := cache.(io.Closer)
		if !ok {
			continue
		}

		err := closer.Close()
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// CacheBuilder assembles a CacheConfig step by step. A fresh builder
// produces the default in-process cache.
type CacheBuilder struct {
	config *CacheConfig
}

// NewCacheBuilder starts a builder targeting the in-process backend.
func NewCacheBuilder() *CacheBuilder {
	return &CacheBuilder{
		config: &CacheConfig{
			Type:    CacheTypeMemory,
			Options: DefaultCacheOptions(),
		},
	}
}

// WithType selects the backend to build.
func (b *CacheBuilder) WithType(cacheType CacheType) *CacheBuilder {
	b.config.Type = cacheType

	return b
}

// WithMemoryConfig sets the in-process backend size and sweep interval.
func (b *CacheBuilder) WithMemoryConfig(maxSize int, cleanupInterval string) *CacheBuilder {
	b.config.Memory = &MemoryCacheConfig{
		MaxSize:         maxSize,
		CleanupInterval: cleanupInterval,
	}

	return b
}

// WithNATSConfig points the builder at a NATS JetStream KV bucket.
func (b *CacheBuilder) WithNATSConfig(config *NATSKVConfig) *CacheBuilder {
	b.config.NATS = config

	return b
}

// WithOptions replaces the options shared by all backends.
func (b *CacheBuilder) WithOptions(options *CacheOptions) *CacheBuilder {
	b.config.Options = options

	return b
}

// Build constructs the configured backend.
func (b *CacheBuilder) Build() (Cache, error) {
	return NewCacheFromConfig(b.config)
}
