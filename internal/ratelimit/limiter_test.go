package ratelimit_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/twitch-client/internal/ratelimit"
	"github.com/fivetwenty-io/twitch-client/pkg/twitch"
)

func TestLimiterAcquire_UnknownStateDispatches(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()

	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Acquire(context.Background()))
	}
}

func TestLimiterAcquire_DecrementsOptimistically(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(5, 800, time.Now().Add(time.Minute))

	require.NoError(t, limiter.Acquire(context.Background()))
	assert.Equal(t, 4, limiter.Snapshot().Remaining)
}

func TestLimiterUpdate_OverwritesLocalState(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(5, 800, time.Now().Add(time.Minute))

	require.NoError(t, limiter.Acquire(context.Background()))

	// Another process consumed capacity; the reported value wins over
	// the local decrement.
	limiter.Update(2, 800, time.Now().Add(time.Minute))
	assert.Equal(t, 2, limiter.Snapshot().Remaining)
}

func TestLimiterAcquire_BlocksWhenExhausted(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(0, 800, time.Now().Add(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Acquire(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiterAcquire_DrainsOnUpdate(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(0, 800, time.Now().Add(time.Hour))

	acquired := make(chan error, 1)

	go func() {
		acquired <- limiter.Acquire(context.Background())
	}()

	select {
	case <-acquired:
		t.Fatal("acquire returned before capacity was reported")
	case <-time.After(20 * time.Millisecond):
	}

	limiter.Update(10, 800, time.Now().Add(time.Minute))

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("acquire did not return after capacity was reported")
	}
}

func TestLimiterAcquire_FIFOOrder(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(0, 800, time.Now().Add(time.Hour))

	const waiterCount = 5

	var (
		mu    sync.Mutex
		order []int
	)

	var started, done sync.WaitGroup

	for i := 0; i < waiterCount; i++ {
		i := i

		started.Add(1)
		done.Add(1)

		go func() {
			defer done.Done()

			// Stagger enqueue so arrival order is deterministic.
			time.Sleep(time.Duration(i) * 20 * time.Millisecond)
			started.Done()

			assert.NoError(t, limiter.Acquire(context.Background()))

			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}()
	}

	started.Wait()
	time.Sleep(150 * time.Millisecond)

	// Release one slot at a time; each release should wake exactly the
	// earliest waiter.
	for released := 1; released <= waiterCount; released++ {
		limiter.Update(1, 800, time.Now().Add(time.Hour))
		time.Sleep(20 * time.Millisecond)
	}

	done.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLimiterAcquire_ResetElapsedRestoresCapacity(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(0, 800, time.Now().Add(30*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := limiter.Acquire(ctx)
	require.NoError(t, err)
}

func TestLimiterAcquire_CancelRemovesWaiter(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(0, 800, time.Now().Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())

	errs := make(chan error, 1)

	go func() {
		errs <- limiter.Acquire(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("acquire did not return after cancellation")
	}

	// The cancelled waiter must not absorb the next freed slot.
	limiter.Update(1, 800, time.Now().Add(time.Hour))
	require.NoError(t, limiter.Acquire(context.Background()))
}

func TestLimiterUpdateFromHeaders(t *testing.T) {
	t.Parallel()

	t.Run("full header set", func(t *testing.T) {
		t.Parallel()

		resetAt := time.Now().Add(time.Minute).Truncate(time.Second)

		headers := http.Header{}
		headers.Set("Ratelimit-Remaining", "775")
		headers.Set("Ratelimit-Limit", "800")
		headers.Set("Ratelimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		limiter := ratelimit.New()
		require.NoError(t, limiter.UpdateFromHeaders(headers))

		bucket := limiter.Snapshot()
		assert.Equal(t, 775, bucket.Remaining)
		assert.Equal(t, 800, bucket.Limit)
		assert.True(t, bucket.ResetAt.Equal(resetAt))
	})

	t.Run("missing headers rejected", func(t *testing.T) {
		t.Parallel()

		headers := http.Header{}
		headers.Set("Ratelimit-Remaining", "775")

		limiter := ratelimit.New()
		err := limiter.UpdateFromHeaders(headers)
		assert.ErrorIs(t, err, twitch.ErrMissingRateLimitHeaders)
	})

	t.Run("malformed values rejected", func(t *testing.T) {
		t.Parallel()

		headers := http.Header{}
		headers.Set("Ratelimit-Remaining", "many")
		headers.Set("Ratelimit-Limit", "800")
		headers.Set("Ratelimit-Reset", "1700000000")

		limiter := ratelimit.New()
		err := limiter.UpdateFromHeaders(headers)
		assert.ErrorIs(t, err, twitch.ErrMissingRateLimitHeaders)
	})
}

func TestLimiterAcquire_ConcurrentNeverOversubscribes(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.New()
	limiter.Update(20, 800, time.Now().Add(time.Hour))

	var wg sync.WaitGroup

	acquired := make(chan struct{}, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if limiter.Acquire(ctx) == nil {
				acquired <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(acquired)

	count := 0
	for range acquired {
		count++
	}

	assert.Equal(t, 20, count)
	assert.Equal(t, 0, limiter.Snapshot().Remaining)
}
