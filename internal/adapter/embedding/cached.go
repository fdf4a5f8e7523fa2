package embedding

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"cap113/internal/adapter/cache"
	"cap113/internal/port"
)

var _ port.Embedder = (*CachedEmbedder)(nil)

// CachedEmbedder checks the cache before calling the provider and stores
// every fresh vector. The cache key covers the full text even though the
// provider only sees a truncated prefix.
type CachedEmbedder struct {
	provider port.Embedder
	cache    port.EmbeddingCache
	logger   *zap.Logger
	group    singleflight.Group
}

func NewCachedEmbedder(provider port.Embedder, c port.EmbeddingCache, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		provider: provider,
		cache:    c,
		logger:   logger,
	}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, ok, err := e.cache.Get(ctx, text)
	if err != nil {
		return nil, err
	}
	if ok {
		return vec, nil
	}

	key := cache.Key(text)
	// The flight is shared, so it must not die with whichever caller started it.
	flightCtx := context.WithoutCancel(ctx)
	ch := e.group.DoChan(key, func() (any, error) {
		// A flight that finished between our miss and DoChan has already stored it.
		if vec, ok, err := e.cache.Get(flightCtx, text); err == nil && ok {
			return vec, nil
		}

		vec, err := e.provider.Embed(flightCtx, text)
		if err != nil {
			return nil, err
		}
		if err := e.cache.Put(flightCtx, text, vec); err != nil {
			return nil, err
		}
		e.logger.Debug("embedding cached", zap.String("key", key), zap.Int("dims", len(vec)))
		return vec, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			e.logger.Debug("embedding shared with concurrent caller", zap.String("key", key))
		}
		return res.Val.([]float32), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *CachedEmbedder) ModelName() string {
	return e.provider.ModelName()
}
