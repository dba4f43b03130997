package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestGetOrLoadCachesUntilRevalidated(t *testing.T) {
	c := New(4, time.Minute)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (any, error) {
		loads++
		return fmt.Sprintf("v%d", loads), nil
	}

	v, err := c.GetOrLoad(ctx, "faqs", load)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = c.GetOrLoad(ctx, "faqs", load)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 1, loads)

	c.Revalidate("faqs")
	v, err = c.GetOrLoad(ctx, "faqs", load)
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	c := New(4, time.Minute)
	ctx := context.Background()

	_, err := c.GetOrLoad(ctx, "services", func(context.Context) (any, error) {
		return nil, errors.New("db down")
	})
	require.Error(t, err)

	_, ok := c.Get("services")
	assert.False(t, ok)
}

func TestRevalidateDuringLoadDropsStaleResult(t *testing.T) {
	c := New(4, time.Minute)
	ctx := context.Background()

	v, err := c.GetOrLoad(ctx, "testimonials", func(context.Context) (any, error) {
		// a write lands while the read is in flight
		c.Revalidate("testimonials")
		return "stale", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "stale", v)

	_, ok := c.Get("testimonials")
	assert.False(t, ok, "value loaded before invalidation must not be cached")
}

func TestExpiry(t *testing.T) {
	c := New(2, 10*time.Millisecond)
	ctx := context.Background()

	_, err := c.GetOrLoad(ctx, "home-values", func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("home-values")
	assert.False(t, ok)

	require.NoError(t, c.CleanExpired(ctx))
	assert.Equal(t, 0, c.Len())
}

func TestConcurrentAccess(t *testing.T) {
	c := New(16, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%7)
			for range 100 {
				_, _ = c.GetOrLoad(ctx, key, func(context.Context) (any, error) { return i, nil })
				if i%3 == 0 {
					c.Revalidate(key)
				}
			}
		}()
	}
	wg.Wait()
}

func TestCleanupWorkerStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(2, time.Minute)
	c.cleanupInterval = 5 * time.Millisecond
	c.StartCleanupWorker()
	c.StartCleanupWorker()
	time.Sleep(20 * time.Millisecond)
	c.StopCleanupWorker()
	c.StopCleanupWorker()
}
