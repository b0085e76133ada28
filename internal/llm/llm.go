// Package llm wraps the completion service behind a small interface so
// the summarization and QA paths can be tested without network calls.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Request carries one completion call.
type Request struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Completer is the completion-service capability: given a prompt, return
// generated text or fail.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client is the OpenAI-backed Completer. Every call runs under a bounded
// timeout so a stalled upstream cannot hang a request forever.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewClient creates a Client. An empty model selects gpt-3.5-turbo; a
// non-positive timeout defaults to 60 seconds.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: 0.3,
		timeout:     timeout,
	}
}

// Complete sends the request and returns the trimmed completion text.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("completion call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// EstimateTokens is a rough character-based token estimate, good enough
// for cost logging.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// EstimateCost approximates the USD cost of summarizing text with
// gpt-3.5-turbo pricing, assuming the full output budget is used.
func EstimateCost(text string, maxOutputTokens int) float64 {
	inputCost := float64(EstimateTokens(text)) / 1000 * 0.0015
	outputCost := float64(maxOutputTokens) / 1000 * 0.002
	return inputCost + outputCost
}
