// Package processor runs the LLM stage. It summarizes and scores the
// deduplicated items, keeps the top N, and turns them into a broadcast
// script.
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ChatClient is the completion surface the processor needs; the tests
// substitute a stub for it.
type ChatClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// OpenRouter calls an OpenAI-compatible chat completions endpoint.
type OpenRouter struct {
	baseURL    string
	model      string
	apiKey     string
	maxRetries int
	client     *http.Client
	logger     zerolog.Logger
}

func NewOpenRouter(client *http.Client, logger zerolog.Logger, baseURL, model, apiKey string, maxRetries int) *OpenRouter {
	return &OpenRouter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		maxRetries: maxRetries,
		client:     client,
		logger:     logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			// Some reasoning models put their output here and leave
			// content empty.
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
	} `json:"choices"`
	// OpenRouter can report errors in the body with HTTP 200.
	Error *struct {
		Code    any    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a single-message chat completion. HTTP 429 and 5xx
// responses are retried with exponential backoff up to maxRetries.
func (o *OpenRouter) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	payload, err := json.Marshal(chatRequest{
		Model:       o.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= o.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			o.logger.Warn().
				Err(lastErr).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying LLM call")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, retryable, err := o.completeOnce(ctx, payload)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", fmt.Errorf("LLM call failed after %d retries: %w", o.maxRetries, lastErr)
}

func (o *OpenRouter) completeOnce(ctx context.Context, payload []byte) (content string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("send completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", true, fmt.Errorf("completion endpoint %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, fmt.Errorf("completion endpoint %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", false, fmt.Errorf("decode completion response: %w", err)
	}

	if parsed.Error != nil {
		return "", false, fmt.Errorf("completion endpoint returned error (code=%v): %s",
			parsed.Error.Code, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", false, fmt.Errorf("completion response has no choices")
	}

	content = parsed.Choices[0].Message.Content
	if content == "" {
		if reasoning := parsed.Choices[0].Message.ReasoningContent; reasoning != "" {
			o.logger.Warn().Msg("model returned only reasoning content, using it")
			content = reasoning
		}
	}
	if content == "" {
		return "", false, fmt.Errorf("completion response is empty")
	}
	return content, false, nil
}
