// Package corpus loads the article files and embeds them once per process.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"cap113/internal/domain"
	"cap113/internal/port"
)

var _ port.Corpus = (*Loader)(nil)

// ProgressFunc is called after each article is embedded.
type ProgressFunc func(processed, total int, currentFile string)

// Loader reads every article from its source, embeds it and memoizes the
// result. The first call starts the load; concurrent callers wait on the
// same load and later callers get the same slice without touching disk.
// A failed load is memoized as well.
type Loader struct {
	source   port.ArticleSource
	embedder port.Embedder
	logger   *zap.Logger
	progress ProgressFunc

	mu   sync.Mutex
	load *loadCall
}

type loadCall struct {
	done chan struct{}
	docs []domain.Document
	err  error
}

func NewLoader(source port.ArticleSource, embedder port.Embedder, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		source:   source,
		embedder: embedder,
		logger:   logger,
	}
}

// SetProgress installs a progress callback. It must be called before the
// first Documents call.
func (l *Loader) SetProgress(fn ProgressFunc) {
	l.progress = fn
}

// Documents returns the embedded corpus. The returned slice is shared and
// must not be modified.
func (l *Loader) Documents(ctx context.Context) ([]domain.Document, error) {
	l.mu.Lock()
	call := l.load
	if call == nil {
		call = &loadCall{done: make(chan struct{})}
		l.load = call
		// The load outlives the request that happened to trigger it.
		loadCtx := context.WithoutCancel(ctx)
		go func() {
			call.docs, call.err = l.loadAll(loadCtx)
			close(call.done)
		}()
	}
	l.mu.Unlock()

	select {
	case <-call.done:
		return call.docs, call.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) loadAll(ctx context.Context) ([]domain.Document, error) {
	start := time.Now()

	files, err := l.source.List()
	if err != nil {
		l.logger.Error("failed to list articles", zap.Error(err))
		return nil, fmt.Errorf("%w: list articles: %w", domain.ErrCorpusLoadFailed, err)
	}

	docs := make([]domain.Document, 0, len(files))
	for i, file := range files {
		doc, err := l.loadArticle(ctx, file)
		if err != nil {
			l.logger.Error("failed to load article", zap.String("file", file), zap.Error(err))
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrCorpusLoadFailed, filepath.Base(file), err)
		}
		docs = append(docs, doc)

		if l.progress != nil {
			l.progress(i+1, len(files), file)
		}
	}

	l.logger.Info("corpus loaded",
		zap.Int("articles", len(docs)),
		zap.Duration("elapsed", time.Since(start)))

	return docs, nil
}

func (l *Loader) loadArticle(ctx context.Context, file string) (domain.Document, error) {
	data, err := l.source.ReadFile(file)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read: %w", err)
	}

	var rec domain.ArticleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Document{}, fmt.Errorf("parse: %w", err)
	}

	text := rec.Content.Normalize()
	vec, err := l.embedder.Embed(ctx, text)
	if err != nil {
		return domain.Document{}, fmt.Errorf("embed: %w", err)
	}

	return domain.Document{
		ID:     rec.ArticleNumber,
		Title:  rec.Title,
		Text:   text,
		Vector: vec,
	}, nil
}
