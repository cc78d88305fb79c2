package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesExactVersion(t *testing.T) {
	var calls atomic.Int64
	cache := NewCache(func(ctx context.Context) (*Payload, error) {
		calls.Add(1)
		return &Payload{}, nil
	})

	first, err := cache.Fetch(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	second, err := cache.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load(), "same version must not refetch")
	assert.Same(t, first, second)
}

func TestFetchNewVersionSupersedes(t *testing.T) {
	var calls atomic.Int64
	cache := NewCache(func(ctx context.Context) (*Payload, error) {
		calls.Add(1)
		return &Payload{}, nil
	})

	_, err := cache.Fetch(context.Background(), 1)
	require.NoError(t, err)
	_, err = cache.Fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), calls.Load())

	// version 2 is now the cached entry; version 1 is gone
	_, err = cache.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())

	_, err = cache.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), calls.Load(), "superseded version must refetch")
}

func TestConcurrentSameVersionSharesOneFetch(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	cache := NewCache(func(ctx context.Context) (*Payload, error) {
		calls.Add(1)
		<-release
		return &Payload{}, nil
	})

	const callers = 8
	results := make([]*Payload, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := cache.Fetch(context.Background(), 5)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	require.Eventually(t, func() bool { return calls.Load() >= 1 },
		time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load(), "concurrent callers must share one fetch")
	for i := 1; i < callers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestFailedFetchDoesNotPoisonLaterCalls(t *testing.T) {
	var calls atomic.Int64
	fail := true
	cache := NewCache(func(ctx context.Context) (*Payload, error) {
		calls.Add(1)
		if fail {
			return nil, errors.New("upstream down")
		}
		return &Payload{}, nil
	})

	_, err := cache.Fetch(context.Background(), 3)
	require.EqualError(t, err, "upstream down")

	fail = false
	p, err := cache.Fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, int64(2), calls.Load())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var calls atomic.Int64
	cache := NewCache(func(ctx context.Context) (*Payload, error) {
		calls.Add(1)
		return &Payload{}, nil
	})

	_, err := cache.Fetch(context.Background(), 1)
	require.NoError(t, err)
	cache.Invalidate()
	_, err = cache.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}
