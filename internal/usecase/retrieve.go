package usecase

import (
	"context"

	"cap113/internal/domain"
)

// Searcher returns scored documents.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.ScoredDocument, error)
}

// RetrieveUseCase handles search requests that need scores, such as the
// query command.
type RetrieveUseCase struct {
	searcher Searcher
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(searcher Searcher) *RetrieveUseCase {
	return &RetrieveUseCase{searcher: searcher}
}

// Retrieve returns up to topK articles with their similarity scores.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, query string, topK int) ([]ArticleResult, error) {
	scored, err := u.searcher.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	results := make([]ArticleResult, len(scored))
	for i, s := range scored {
		results[i] = ArticleResult{
			Article: s.Document.ID,
			Title:   s.Document.Title,
			Score:   s.Score,
			Text:    s.Document.Text,
		}
	}
	return results, nil
}

// ArticleResult is a simplified result for CLI output.
type ArticleResult struct {
	Article string  `json:"article"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}
