package domain

import "errors"

var (
	// ErrEmbeddingRequestFailed is returned when the embedding provider
	// answers with something other than a usable vector.
	ErrEmbeddingRequestFailed = errors.New("embedding request failed")

	// ErrCorpusLoadFailed wraps any failure while reading or embedding articles.
	ErrCorpusLoadFailed = errors.New("corpus load failed")

	// ErrAnswerMissing marks a chat completion response without choices[0].message.content.
	ErrAnswerMissing = errors.New("chat response has no answer content")
)
