package retriever

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"cap113/internal/domain"
	"cap113/internal/port"
)

var _ port.Retriever = (*SemanticRetriever)(nil)

// SemanticRetriever scores every article against the query embedding.
type SemanticRetriever struct {
	corpus   port.Corpus
	embedder port.Embedder
	logger   *zap.Logger
}

func NewSemanticRetriever(corpus port.Corpus, embedder port.Embedder, logger *zap.Logger) *SemanticRetriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticRetriever{
		corpus:   corpus,
		embedder: embedder,
		logger:   logger,
	}
}

// Search returns up to k documents with their scores, highest first. Ties
// keep corpus order.
func (r *SemanticRetriever) Search(ctx context.Context, query string, k int) ([]domain.ScoredDocument, error) {
	if k <= 0 {
		return []domain.ScoredDocument{}, nil
	}

	qVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := r.corpus.Documents(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredDocument, len(docs))
	mismatched := 0
	for i, doc := range docs {
		if len(doc.Vector) != len(qVec) {
			mismatched++
		}
		scored[i] = domain.ScoredDocument{
			Document: doc,
			Score:    CosineSimilarity(qVec, doc.Vector),
		}
	}
	if mismatched > 0 {
		// Usually cache entries from a different embedding model.
		r.logger.Warn("embedding dimensions differ from query; scores compare a truncated prefix",
			zap.Int("query_dims", len(qVec)),
			zap.Int("mismatched_docs", mismatched),
			zap.String("model", r.embedder.ModelName()))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	scored = scored[:k]

	if len(scored) > 0 {
		r.logger.Debug("retrieved articles",
			zap.Int("k", k),
			zap.String("top_id", scored[0].Document.ID),
			zap.Float64("top_score", scored[0].Score))
	}

	return scored, nil
}

// Retrieve returns up to k documents, most similar first.
func (r *SemanticRetriever) Retrieve(ctx context.Context, query string, k int) ([]domain.Document, error) {
	scored, err := r.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, len(scored))
	for i, s := range scored {
		docs[i] = s.Document
	}
	return docs, nil
}
