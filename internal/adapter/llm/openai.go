// Package llm provides the chat completion adapter.
package llm

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

// DefaultModel matches the model the assistant was tuned against.
const DefaultModel = "gpt-3.5-turbo"

var _ port.ChatCompleter = (*OpenAIChat)(nil)

// OpenAIChat calls an OpenAI-compatible /chat/completions endpoint.
type OpenAIChat struct {
	client *provider.Client
	model  string
	logger *zap.Logger
}

type chatCompletionRequest struct {
	Model    string           `json:"model"`
	Messages []domain.Message `json:"messages"`
}

// Fields are pointers so a missing content can be told apart from an
// empty one.
type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewOpenAIChat(client *provider.Client, model string, logger *zap.Logger) *OpenAIChat {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIChat{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Complete returns choices[0].message.content. A JSON response without it
// yields an error wrapping domain.ErrAnswerMissing.
func (c *OpenAIChat) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	resp, err := c.client.PostJSON(ctx, "/chat/completions", chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(resp.Body, &chatResp); err != nil {
		c.logger.Error("chat provider returned non-JSON",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.Preview(resp.Body, 2048)))
		return "", fmt.Errorf("chat completion: decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message == nil || chatResp.Choices[0].Message.Content == nil {
		fields := []zap.Field{
			zap.Int("status", resp.StatusCode),
			zap.String("body", logging.Preview(resp.Body, 2048)),
		}
		if chatResp.Error != nil {
			fields = append(fields, zap.String("api_error", chatResp.Error.Message))
		}
		c.logger.Warn("chat response has no content", fields...)
		return "", fmt.Errorf("chat completion: %w", domain.ErrAnswerMissing)
	}

	return *chatResp.Choices[0].Message.Content, nil
}

func (c *OpenAIChat) ModelName() string {
	return c.model
}
