package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	sessionDomain "github.com/allisson/passvault/internal/session/domain"
)

const (
	sliding  = 30 * time.Minute
	absolute = 12 * time.Hour
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newKey(t *testing.T) cryptoDomain.DerivedKey {
	t.Helper()
	key := make(cryptoDomain.DerivedKey, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func newTestCache(clock *fakeClock) *Cache {
	return NewCache(nil, WithClock(clock.Now), WithShardCount(4))
}

// rawEntry peeks at the stored entry without touching it.
func rawEntry(c *Cache, token string) *sessionDomain.Entry {
	cacheKey := c.tokens.HashToken(token)
	s := c.shardFor(cacheKey)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[cacheKey]
}

func TestCache_PutGet(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)
	subject := uuid.New()
	key := newKey(t)

	require.NoError(t, cache.Put("token-1", subject, key, sliding, absolute))

	got, gotSubject, ok := cache.Get("token-1")
	require.True(t, ok)
	assert.Equal(t, subject, gotSubject)
	assert.True(t, bytes.Equal(key, got))

	t.Run("returns an independent copy", func(t *testing.T) {
		got.Zero()
		again, _, ok := cache.Get("token-1")
		require.True(t, ok)
		assert.True(t, bytes.Equal(key, again))
	})

	t.Run("caller zeroing its key does not affect the cache", func(t *testing.T) {
		original := key.Clone()
		key.Zero()
		again, _, ok := cache.Get("token-1")
		require.True(t, ok)
		assert.True(t, bytes.Equal(original, again))
	})

	t.Run("unknown token misses", func(t *testing.T) {
		got, subject, ok := cache.Get("token-2")
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Equal(t, uuid.Nil, subject)
	})

	t.Run("empty token misses", func(t *testing.T) {
		_, _, ok := cache.Get("")
		assert.False(t, ok)
	})

	t.Run("raw token is not used as cache key", func(t *testing.T) {
		for _, s := range cache.shards {
			_, found := s.entries["token-1"]
			assert.False(t, found)
		}
	})
}

func TestCache_PutValidation(t *testing.T) {
	cache := newTestCache(newFakeClock())
	subject := uuid.New()

	assert.ErrorIs(t, cache.Put("", subject, newKey(t), sliding, absolute), sessionDomain.ErrEmptyToken)
	assert.ErrorIs(t, cache.Put("t", subject, make(cryptoDomain.DerivedKey, 16), sliding, absolute),
		cryptoDomain.ErrInvalidKeySize)
	assert.ErrorIs(t, cache.Put("t", subject, newKey(t), 0, absolute), sessionDomain.ErrInvalidPolicy)
	assert.ErrorIs(t, cache.Put("t", subject, newKey(t), sliding, -time.Second), sessionDomain.ErrInvalidPolicy)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_SlidingExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)
	require.NoError(t, cache.Put("tok", uuid.New(), newKey(t), sliding, absolute))

	t.Run("hit within window refreshes it", func(t *testing.T) {
		clock.Advance(20 * time.Minute)
		_, _, ok := cache.Get("tok")
		require.True(t, ok)

		clock.Advance(20 * time.Minute)
		_, _, ok = cache.Get("tok")
		assert.True(t, ok, "40 minutes after creation but 20 after last touch")
	})

	t.Run("idle past the window misses", func(t *testing.T) {
		entry := rawEntry(cache, "tok")
		require.NotNil(t, entry)

		clock.Advance(31 * time.Minute)
		_, _, ok := cache.Get("tok")
		assert.False(t, ok)
		assert.Equal(t, 0, cache.Len())
		assert.Equal(t, make(cryptoDomain.DerivedKey, cryptoDomain.KeySize), entry.Key, "evicted key is zeroed")
	})
}

func TestCache_AbsoluteExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)
	require.NoError(t, cache.Put("tok", uuid.New(), newKey(t), sliding, absolute))

	// Keep the entry busy every 20 minutes right up to the absolute cap.
	elapsed := time.Duration(0)
	for elapsed+20*time.Minute < absolute {
		clock.Advance(20 * time.Minute)
		elapsed += 20 * time.Minute
		_, _, ok := cache.Get("tok")
		require.True(t, ok, "still live at %s", elapsed)
	}

	clock.Advance(absolute - elapsed)
	_, _, ok := cache.Get("tok")
	assert.False(t, ok, "absolute lifetime is not extended by activity")
}

func TestCache_OverwriteZeroesPrevious(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)
	subject := uuid.New()

	require.NoError(t, cache.Put("tok", subject, newKey(t), sliding, absolute))
	first := rawEntry(cache, "tok")
	require.NotNil(t, first)

	clock.Advance(time.Hour)
	second := newKey(t)
	require.NoError(t, cache.Put("tok", subject, second, sliding, absolute))

	assert.Equal(t, make(cryptoDomain.DerivedKey, cryptoDomain.KeySize), first.Key)
	got, _, ok := cache.Get("tok")
	require.True(t, ok)
	assert.True(t, bytes.Equal(second, got))
	assert.Equal(t, clock.Now(), rawEntry(cache, "tok").CreatedAt)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Invalidate(t *testing.T) {
	cache := newTestCache(newFakeClock())
	require.NoError(t, cache.Put("tok", uuid.New(), newKey(t), sliding, absolute))
	entry := rawEntry(cache, "tok")

	cache.Invalidate("tok")
	_, _, ok := cache.Get("tok")
	assert.False(t, ok)
	assert.Equal(t, make(cryptoDomain.DerivedKey, cryptoDomain.KeySize), entry.Key)

	assert.NotPanics(t, func() {
		cache.Invalidate("tok")
		cache.Invalidate("never-existed")
		cache.Invalidate("")
	})
}

func TestCache_Sweep(t *testing.T) {
	clock := newFakeClock()
	cache := newTestCache(clock)

	require.NoError(t, cache.Put("short", uuid.New(), newKey(t), time.Minute, absolute))
	require.NoError(t, cache.Put("long", uuid.New(), newKey(t), sliding, absolute))
	short := rawEntry(cache, "short")

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, cache.Sweep())
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, make(cryptoDomain.DerivedKey, cryptoDomain.KeySize), short.Key)

	_, _, ok := cache.Get("long")
	assert.True(t, ok)
}

func TestCache_Close(t *testing.T) {
	cache := newTestCache(newFakeClock())
	require.NoError(t, cache.Put("a", uuid.New(), newKey(t), sliding, absolute))
	require.NoError(t, cache.Put("b", uuid.New(), newKey(t), sliding, absolute))
	a, b := rawEntry(cache, "a"), rawEntry(cache, "b")

	cache.Close()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, make(cryptoDomain.DerivedKey, cryptoDomain.KeySize), a.Key)
	assert.Equal(t, make(cryptoDomain.DerivedKey, cryptoDomain.KeySize), b.Key)

	_, _, ok := cache.Get("a")
	assert.False(t, ok)
	assert.ErrorIs(t, cache.Put("c", uuid.New(), newKey(t), sliding, absolute), sessionDomain.ErrCacheClosed)
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewCache(nil)
	defer cache.Close()

	subject := uuid.New()
	key := newKey(t)

	var wg sync.WaitGroup
	for w := range 16 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 200 {
				token := uuid.NewString()
				if err := cache.Put(token, subject, key, sliding, absolute); err != nil {
					t.Error(err)
					return
				}
				got, gotSubject, ok := cache.Get(token)
				if !ok || gotSubject != subject || !bytes.Equal(key, got) {
					t.Errorf("worker %d iteration %d: unexpected lookup result", w, i)
					return
				}
				got.Zero()
				if i%3 == 0 {
					cache.Invalidate(token)
				}
				if i%50 == 0 {
					cache.Sweep()
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Greater(t, cache.Len(), 0)
}

func TestCache_ConcurrencySameToken(t *testing.T) {
	cache := NewCache(nil)
	defer cache.Close()

	const (
		token   = "shared-token"
		workers = 8
		rounds  = 2000
	)
	subject := uuid.New()

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			fill := byte(w + 1)
			key := bytes.Repeat([]byte{fill}, cryptoDomain.KeySize)

			for i := range rounds {
				switch i % 3 {
				case 0:
					if err := cache.Put(token, subject, key, sliding, absolute); err != nil {
						t.Error(err)
						return
					}
				case 1:
					got, gotSubject, ok := cache.Get(token)
					if !ok {
						continue
					}
					if len(got) != cryptoDomain.KeySize || got[0] == 0 ||
						!bytes.Equal(got, bytes.Repeat(got[:1], cryptoDomain.KeySize)) {
						t.Errorf("worker %d round %d: torn key %x", w, i, []byte(got))
						return
					}
					if gotSubject != subject {
						t.Errorf("worker %d round %d: unexpected subject", w, i)
						return
					}
					got.Zero()
				default:
					cache.Invalidate(token)
				}
			}
		}(w)
	}
	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 1)
}

func TestCache_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	cache := NewCache(slog.New(slog.DiscardHandler), WithClock(clock.Now))
	require.NoError(t, cache.Put("tok", uuid.New(), newKey(t), time.Minute, absolute))
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

// prefixTokenService hashes a token by prefixing it, so cache keys are predictable.
type prefixTokenService struct{}

func (prefixTokenService) GenerateToken() (string, error) {
	return "token", nil
}

func (prefixTokenService) HashToken(plainToken string) string {
	return "hashed:" + plainToken
}

func TestCache_IndexesByTokenHash(t *testing.T) {
	clock := newFakeClock()
	c := NewCache(nil, WithClock(clock.Now), WithShardCount(1), WithTokenService(prefixTokenService{}))
	subject := uuid.Must(uuid.NewV7())

	require.NoError(t, c.Put("abc", subject, newKey(t), sliding, absolute))

	s := c.shards[0]
	s.mu.Lock()
	_, rawPresent := s.entries["abc"]
	_, hashedPresent := s.entries["hashed:abc"]
	s.mu.Unlock()

	assert.False(t, rawPresent, "raw token must not be a cache key")
	assert.True(t, hashedPresent)

	_, got, ok := c.Get("abc")
	assert.True(t, ok)
	assert.Equal(t, subject, got)
}
