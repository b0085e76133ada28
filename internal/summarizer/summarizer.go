// Package summarizer condenses extracted document text via the
// completion service.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"gpdf/internal/llm"
	"gpdf/internal/security"
)

const (
	// maxInputChars keeps the prompt inside the model's context budget.
	// Counted in characters; truncation is a plain head cut on a rune
	// boundary.
	maxInputChars = 8000
	// MaxOutputTokens bounds the generated summary length.
	MaxOutputTokens = 500
)

const systemPrompt = "You are a document summarization specialist. " +
	"Summarize the given text concisely and clearly, in the same language as the source document."

const promptTemplate = `Summarize the content of the following PDF document in its own language.
Organize the main points and key takeaways concisely and clearly.

Document content:
%s

Summary:`

// Summarizer drives the completion service to produce summaries.
type Summarizer struct {
	completer llm.Completer
}

// New creates a Summarizer on top of a Completer.
func New(completer llm.Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Summarize returns a trimmed summary of text. Input longer than the
// ceiling is truncated from the start before prompting. Fails when the
// completion service errors or returns no content.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = security.TruncateRunes(text, maxInputChars)

	out, err := s.completer.Complete(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    fmt.Sprintf(promptTemplate, text),
		MaxTokens: MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("summary generation failed: empty completion")
	}
	return out, nil
}
