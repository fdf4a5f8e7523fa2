// Package app assembles the retrieval and answering stack from configuration.
package app

import (
	"go.uber.org/zap"

	"cap113/config"
	"cap113/internal/adapter/cache"
	"cap113/internal/adapter/corpus"
	"cap113/internal/adapter/embedding"
	"cap113/internal/adapter/fs"
	"cap113/internal/adapter/llm"
	"cap113/internal/adapter/provider"
	"cap113/internal/adapter/retriever"
	"cap113/internal/usecase"
)

// App holds the wired components. One App shares one memoized corpus.
type App struct {
	Embedder  *embedding.CachedEmbedder
	Loader    *corpus.Loader
	Retriever *retriever.SemanticRetriever
	Answer    *usecase.AnswerUseCase
}

// New wires the components. A missing API key is only logged; provider
// calls will fail until one is set.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	apiKey := cfg.APIKey()
	if apiKey == "" {
		logger.Warn("no API key set; provider calls will fail", zap.String("env", cfg.Provider.APIKeyEnv))
	}

	client := provider.NewClient(provider.Config{
		BaseURL:           cfg.Provider.BaseURL,
		APIKey:            apiKey,
		Timeout:           cfg.Provider.Timeout,
		MaxRetries:        cfg.Provider.MaxRetries,
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
	}, logger.Named("provider"))

	embedder := embedding.NewCachedEmbedder(
		embedding.NewOpenAIEmbedder(client, cfg.Embedding.Model, cfg.Embedding.MaxInputChars, logger.Named("embedding")),
		cache.NewFileCache(cfg.Cache.Dir, logger.Named("cache")),
		logger.Named("embedding"),
	)

	loader := corpus.NewLoader(
		fs.NewWalker(cfg.Corpus.Dir, cfg.Corpus.Pattern),
		embedder,
		logger.Named("corpus"),
	)

	semantic := retriever.NewSemanticRetriever(loader, embedder, logger.Named("retriever"))

	answer, err := usecase.NewAnswerUseCase(
		semantic,
		llm.NewOpenAIChat(client, cfg.Chat.Model, logger.Named("chat")),
		logger.Named("answer"),
		usecase.WithTopK(cfg.Retrieve.TopK),
		usecase.WithFallback(cfg.Chat.Fallback),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		Embedder:  embedder,
		Loader:    loader,
		Retriever: semantic,
		Answer:    answer,
	}, nil
}
