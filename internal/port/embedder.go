package port

import "context"

// Embedder generates a vector embedding for text.
type Embedder interface {
	// Embed returns the embedding vector of text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// EmbeddingCache stores embeddings keyed by the text they were computed from.
type EmbeddingCache interface {
	// Get returns the cached vector for text. ok is false on a miss.
	Get(ctx context.Context, text string) (vec []float32, ok bool, err error)

	// Put stores vec as the embedding of text.
	Put(ctx context.Context, text string, vec []float32) error
}
