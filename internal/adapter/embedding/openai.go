package embedding

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"cap113/internal/adapter/provider"
	"cap113/internal/domain"
	"cap113/internal/logging"
	"cap113/internal/port"
)

// DefaultMaxInputChars caps the text sent to the provider.
const DefaultMaxInputChars = 8000

var _ port.Embedder = (*OpenAIEmbedder)(nil)

// OpenAIEmbedder calls an OpenAI-compatible /embeddings endpoint. It does
// not cache; wrap it in a CachedEmbedder.
type OpenAIEmbedder struct {
	client   *provider.Client
	model    string
	maxChars int
	logger   *zap.Logger
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data  []embeddingData `json:"data"`
	Error *apiError       `json:"error,omitempty"`
}

type embeddingData struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewOpenAIEmbedder(client *provider.Client, model string, maxChars int, logger *zap.Logger) *OpenAIEmbedder {
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIEmbedder{
		client:   client,
		model:    model,
		maxChars: maxChars,
		logger:   logger,
	}
}

// Embed sends the first maxChars characters of text and returns the first
// vector of the response.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.PostJSON(ctx, "/embeddings", embeddingRequest{
		Model: e.model,
		Input: Truncate(text, e.maxChars),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingRequestFailed, err)
	}

	if !json.Valid(resp.Body) {
		e.logger.Error("embedding provider returned non-JSON",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(resp.Body)))
		return nil, fmt.Errorf("%w (non-JSON response)", domain.ErrEmbeddingRequestFailed)
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(resp.Body, &embResp); err != nil || len(embResp.Data) == 0 || len(embResp.Data[0].Embedding) == 0 {
		fields := []zap.Field{
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.Preview(resp.Body, 2048)),
		}
		if embResp.Error != nil {
			fields = append(fields, zap.String("api_error", embResp.Error.Message))
		}
		e.logger.Error("embedding API error", fields...)
		return nil, fmt.Errorf("%w (API error)", domain.ErrEmbeddingRequestFailed)
	}

	return embResp.Data[0].Embedding, nil
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// Truncate returns the first max characters of text.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}
