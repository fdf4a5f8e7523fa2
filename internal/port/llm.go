package port

import (
	"context"

	"cap113/internal/domain"
)

// ChatCompleter sends a message list to a chat completion model.
type ChatCompleter interface {
	// Complete returns the text of the first choice. It returns an error
	// wrapping domain.ErrAnswerMissing when the response carries no content.
	Complete(ctx context.Context, messages []domain.Message) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
