package service

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	sessionDomain "github.com/allisson/passvault/internal/session/domain"
)

const defaultShardCount = 32

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now as the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithShardCount sets the number of independently locked shards.
func WithShardCount(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.shardCount = n
		}
	}
}

// WithTokenService replaces the service used to hash tokens into cache keys.
func WithTokenService(tokens TokenService) Option {
	return func(c *Cache) {
		c.tokens = tokens
	}
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*sessionDomain.Entry
}

// Cache holds derived keys indexed by the SHA-256 hash of their session token.
//
// Each entry expires after SlidingTTL without a successful lookup, or AbsoluteTTL
// after creation, whichever comes first. Expired entries are removed lazily by Get
// and eagerly by Sweep. Every key leaving the cache is zeroed.
//
// Safe for concurrent use.
type Cache struct {
	shards     []*shard
	shardCount int
	now        func() time.Time
	tokens     TokenService
	logger     *slog.Logger
	closed     atomic.Bool
}

// NewCache creates an empty Cache.
func NewCache(logger *slog.Logger, opts ...Option) *Cache {
	c := &Cache{
		shardCount: defaultShardCount,
		now:        time.Now,
		tokens:     NewTokenService(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.shards = make([]*shard, c.shardCount)
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[string]*sessionDomain.Entry)}
	}
	return c
}

func (c *Cache) shardFor(cacheKey string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(cacheKey))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Put caches a copy of key under token for subject, replacing and zeroing any
// previous entry for the same token.
func (c *Cache) Put(
	token string,
	subject uuid.UUID,
	key cryptoDomain.DerivedKey,
	slidingTTL, absoluteTTL time.Duration,
) error {
	if c.closed.Load() {
		return sessionDomain.ErrCacheClosed
	}
	if token == "" {
		return sessionDomain.ErrEmptyToken
	}
	if !key.Valid() {
		return cryptoDomain.ErrInvalidKeySize
	}
	policy := sessionDomain.Policy{SlidingTTL: slidingTTL, AbsoluteTTL: absoluteTTL}
	if err := policy.Validate(); err != nil {
		return err
	}

	cacheKey := c.tokens.HashToken(token)
	entry := sessionDomain.NewEntry(subject, key.Clone(), policy, c.now())

	s := c.shardFor(cacheKey)
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.closed.Load() {
		entry.Zero()
		return sessionDomain.ErrCacheClosed
	}
	if prev, ok := s.entries[cacheKey]; ok {
		prev.Zero()
	}
	s.entries[cacheKey] = entry
	return nil
}

// Get returns a copy of the key cached under token and the subject bound to it.
// A hit refreshes the sliding window. An expired entry is evicted and reported as a
// miss. The caller owns the returned key and must zero it.
func (c *Cache) Get(token string) (cryptoDomain.DerivedKey, uuid.UUID, bool) {
	if token == "" || c.closed.Load() {
		return nil, uuid.Nil, false
	}

	cacheKey := c.tokens.HashToken(token)
	s := c.shardFor(cacheKey)
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[cacheKey]
	if !ok {
		return nil, uuid.Nil, false
	}

	now := c.now()
	if entry.Expired(now) {
		delete(s.entries, cacheKey)
		entry.Zero()
		return nil, uuid.Nil, false
	}

	entry.Touch(now)
	return entry.Key.Clone(), entry.Subject, true
}

// Invalidate removes the entry for token, if any. Safe to call repeatedly.
func (c *Cache) Invalidate(token string) {
	if token == "" {
		return
	}

	cacheKey := c.tokens.HashToken(token)
	s := c.shardFor(cacheKey)
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[cacheKey]; ok {
		delete(s.entries, cacheKey)
		entry.Zero()
	}
}

// Sweep evicts every expired entry and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()
	removed := 0

	for _, s := range c.shards {
		s.mu.Lock()
		for k, entry := range s.entries {
			if entry.Expired(now) {
				delete(s.entries, k)
				entry.Zero()
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Run sweeps the cache every interval until ctx is cancelled.
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.Sweep(); removed > 0 && c.logger != nil {
				c.logger.Debug("session cache sweep",
					slog.Int("evicted", removed),
					slog.Int("remaining", c.Len()),
				)
			}
		}
	}
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Close zeroes and drops every entry. Subsequent Puts fail and Gets miss.
func (c *Cache) Close() {
	c.closed.Store(true)

	for _, s := range c.shards {
		s.mu.Lock()
		for k, entry := range s.entries {
			entry.Zero()
			delete(s.entries, k)
		}
		s.mu.Unlock()
	}
}
