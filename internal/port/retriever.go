package port

import (
	"context"

	"cap113/internal/domain"
)

// Retriever finds the articles most relevant to a query.
type Retriever interface {
	// Retrieve returns up to k documents, most similar first.
	Retrieve(ctx context.Context, query string, k int) ([]domain.Document, error)
}

// Corpus provides the embedded article set.
type Corpus interface {
	Documents(ctx context.Context) ([]domain.Document, error)
}
