package usecase

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"cap113/internal/domain"
	"cap113/internal/port"
)

//go:embed templates/*.txt
var promptTemplates embed.FS

const (
	// DefaultFallback is returned when the model gives no answer content.
	DefaultFallback = "Sorry, I could not find a relevant article."

	DefaultTopK    = 3
	DefaultLawName = "Cyprus Companies Law (Cap 113)"

	contextSeparator = "\n\n---\n\n"
)

// AnswerUseCase grounds a conversation in the most relevant articles and
// asks the chat model for a reply.
type AnswerUseCase struct {
	retriever    port.Retriever
	chat         port.ChatCompleter
	logger       *zap.Logger
	topK         int
	fallback     string
	systemPrompt string
}

// AnswerOption configures an AnswerUseCase.
type AnswerOption func(*AnswerUseCase)

func WithTopK(k int) AnswerOption {
	return func(u *AnswerUseCase) {
		if k > 0 {
			u.topK = k
		}
	}
}

func WithFallback(text string) AnswerOption {
	return func(u *AnswerUseCase) {
		if text != "" {
			u.fallback = text
		}
	}
}

// NewAnswerUseCase creates the orchestrator. It fails only if the embedded
// prompt template is broken.
func NewAnswerUseCase(retriever port.Retriever, chat port.ChatCompleter, logger *zap.Logger, opts ...AnswerOption) (*AnswerUseCase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	prompt, err := renderSystemPrompt(DefaultLawName)
	if err != nil {
		return nil, err
	}

	u := &AnswerUseCase{
		retriever:    retriever,
		chat:         chat,
		logger:       logger,
		topK:         DefaultTopK,
		fallback:     DefaultFallback,
		systemPrompt: prompt,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Answer replies to the latest user message in history.
func (u *AnswerUseCase) Answer(ctx context.Context, history []domain.Message) (string, error) {
	query := LatestUserMessage(history)

	docs, err := u.retriever.Retrieve(ctx, query, u.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve articles: %w", err)
	}

	answer, err := u.chat.Complete(ctx, u.BuildMessages(docs, history))
	if err != nil {
		if errors.Is(err, domain.ErrAnswerMissing) {
			u.logger.Warn("chat provider degraded, returning fallback", zap.Error(err))
			return u.fallback, nil
		}
		return "", err
	}

	return answer, nil
}

// BuildMessages returns the instruction, the grounding block and then the
// history in its original order.
func (u *AnswerUseCase) BuildMessages(docs []domain.Document, history []domain.Message) []domain.Message {
	messages := make([]domain.Message, 0, len(history)+2)
	messages = append(messages,
		domain.Message{Role: domain.RoleSystem, Content: u.systemPrompt},
		domain.Message{Role: domain.RoleSystem, Content: FormatContext(docs)},
	)
	return append(messages, history...)
}

// FormatContext renders documents in retrieval order.
func FormatContext(docs []domain.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("Article %s – %s\n%s", d.ID, d.Title, d.Text)
	}
	return strings.Join(parts, contextSeparator)
}

// LatestUserMessage returns the content of the last user turn, or "".
func LatestUserMessage(history []domain.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.RoleUser {
			return history[i].Content
		}
	}
	return ""
}

func renderSystemPrompt(lawName string) (string, error) {
	tmplContent, err := promptTemplates.ReadFile("templates/system_prompt.txt")
	if err != nil {
		return "", fmt.Errorf("template not found: %w", err)
	}

	tmpl, err := template.New("system").Parse(string(tmplContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ LawName string }{lawName}); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
