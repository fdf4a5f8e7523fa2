package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cap113/internal/adapter/cache"
	"cap113/internal/domain"
)

type countingEmbedder struct {
	calls  atomic.Int32
	inputs []string
	mu     sync.Mutex
	err    error
	delay  time.Duration
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	e.mu.Lock()
	e.inputs = append(e.inputs, text)
	e.mu.Unlock()
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text)), 0.5, -1.25}, nil
}

func (e *countingEmbedder) ModelName() string { return "counting" }

func TestCachedEmbedder_SecondCallServedFromCache(t *testing.T) {
	ctx := context.Background()
	provider := &countingEmbedder{}
	e := NewCachedEmbedder(provider, cache.NewFileCache(t.TempDir(), nil), nil)

	first, err := e.Embed(ctx, "What are the capital requirements?")
	require.NoError(t, err)
	second, err := e.Embed(ctx, "What are the capital requirements?")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.Equal(t, "counting", e.ModelName())
}

func TestCachedEmbedder_CacheSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p1 := &countingEmbedder{}
	v1, err := NewCachedEmbedder(p1, cache.NewFileCache(dir, nil), nil).Embed(ctx, "article text")
	require.NoError(t, err)

	p2 := &countingEmbedder{}
	v2, err := NewCachedEmbedder(p2, cache.NewFileCache(dir, nil), nil).Embed(ctx, "article text")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, int32(0), p2.calls.Load())
}

func TestCachedEmbedder_FailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	provider := &countingEmbedder{err: fmt.Errorf("%w (API error)", domain.ErrEmbeddingRequestFailed)}
	e := NewCachedEmbedder(provider, cache.NewFileCache(dir, nil), nil)

	_, err := e.Embed(ctx, "text")
	require.ErrorIs(t, err, domain.ErrEmbeddingRequestFailed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// No negative caching: the next call reaches the provider again.
	_, err = e.Embed(ctx, "text")
	require.Error(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestCachedEmbedder_KeyCoversFullText(t *testing.T) {
	ctx := context.Background()
	provider := &countingEmbedder{}
	c := cache.NewFileCache(t.TempDir(), nil)
	e := NewCachedEmbedder(provider, c, nil)

	prefix := strings.Repeat("x", DefaultMaxInputChars)
	_, err := e.Embed(ctx, prefix+" tail one")
	require.NoError(t, err)
	_, err = e.Embed(ctx, prefix+" tail two")
	require.NoError(t, err)

	assert.Equal(t, int32(2), provider.calls.Load(), "texts sharing a prefix must not share a cache entry")

	_, ok, err := c.Get(ctx, prefix+" tail one")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedEmbedder_ConcurrentMissesCollapse(t *testing.T) {
	ctx := context.Background()
	provider := &countingEmbedder{delay: 50 * time.Millisecond}
	e := NewCachedEmbedder(provider, cache.NewFileCache(t.TempDir(), nil), nil)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Embed(ctx, "same question"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	// Late arrivals may hit the cache; none may trigger a second call while
	// the first is in flight.
	assert.Equal(t, int32(1), provider.calls.Load())
}

type brokenCache struct{}

func (brokenCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	return nil, false, nil
}

func (brokenCache) Put(ctx context.Context, text string, vec []float32) error {
	return errors.New("disk full")
}

func TestCachedEmbedder_PutErrorPropagates(t *testing.T) {
	e := NewCachedEmbedder(&countingEmbedder{}, brokenCache{}, nil)
	_, err := e.Embed(context.Background(), "x")
	assert.EqualError(t, err, "disk full")
}

// gatedEmbedder blocks until release is closed or its context ends.
type gatedEmbedder struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedEmbedder() *gatedEmbedder {
	return &gatedEmbedder{started: make(chan struct{}), release: make(chan struct{})}
}

func (e *gatedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls.Add(1)
	e.once.Do(func() { close(e.started) })
	select {
	case <-e.release:
		return []float32{1, 2, 3}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *gatedEmbedder) ModelName() string { return "gated" }

type embedResult struct {
	vec []float32
	err error
}

func TestCachedEmbedder_CancelledCallerDoesNotFailOthers(t *testing.T) {
	provider := newGatedEmbedder()
	e := NewCachedEmbedder(provider, cache.NewFileCache(t.TempDir(), nil), nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	resA := make(chan embedResult, 1)
	go func() {
		vec, err := e.Embed(ctxA, "same question")
		resA <- embedResult{vec, err}
	}()
	<-provider.started

	resB := make(chan embedResult, 1)
	go func() {
		vec, err := e.Embed(context.Background(), "same question")
		resB <- embedResult{vec, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	a := <-resA
	assert.ErrorIs(t, a.err, context.Canceled)

	close(provider.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Equal(t, []float32{1, 2, 3}, b.vec)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestCachedEmbedder_AbandonedFlightStillFillsCache(t *testing.T) {
	provider := newGatedEmbedder()
	c := cache.NewFileCache(t.TempDir(), nil)
	e := NewCachedEmbedder(provider, c, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := e.Embed(ctx, "abandoned")
		done <- err
	}()
	<-provider.started
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(provider.release)
	require.Eventually(t, func() bool {
		_, ok, err := c.Get(context.Background(), "abandoned")
		return err == nil && ok
	}, time.Second, 5*time.Millisecond)
}
