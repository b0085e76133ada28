// Package qa answers questions against the stored text of a previously
// processed PDF.
package qa

import (
	"context"
	"fmt"

	"gpdf/internal/llm"
	"gpdf/internal/security"
)

// contextExcerptLen caps how much source text is echoed back to callers.
const contextExcerptLen = 500

// ContextSource resolves a file ID to the stored extracted text.
type ContextSource interface {
	FullText(fileID string) (string, error)
}

// Answer is the result of one question.
type Answer struct {
	Answer  string `json:"answer"`
	Context string `json:"context"`
}

// ValidationError marks a question the security screen rejected; the
// reason is safe to show to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Engine drives validated questions through the completion service.
type Engine struct {
	completer llm.Completer
	source    ContextSource
}

// NewEngine creates an Engine over a Completer and a context source.
func NewEngine(completer llm.Completer, source ContextSource) *Engine {
	return &Engine{completer: completer, source: source}
}

// Ask resolves the stored document, validates the question, and produces
// an answer plus a capped context excerpt. Lookup failures propagate
// unchanged so callers can map them to an absence, not a failure.
func (e *Engine) Ask(ctx context.Context, question, fileID string) (*Answer, error) {
	text, err := e.source.FullText(fileID)
	if err != nil {
		return nil, err
	}

	if ok, reason := security.ValidateQuestion(question); !ok {
		return nil, &ValidationError{Reason: reason}
	}

	prompt := security.BuildSafePrompt(question, text, security.MaxContextChars)
	answer, err := e.completer.Complete(ctx, llm.Request{
		Prompt:    prompt,
		MaxTokens: 500,
	})
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	excerpt := security.TruncateRunes(text, contextExcerptLen)
	if excerpt != text {
		excerpt += "..."
	}

	return &Answer{Answer: answer, Context: excerpt}, nil
}
