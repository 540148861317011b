// Package llm implements the completion client against an OpenAI-compatible
// chat completions endpoint.
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"alisa/core"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

const (
	temperature = 0.7
	maxTokens   = 700

	requestTimeout = 60 * time.Second

	// maxErrorBody bounds how much of an error body ends up in the warning
	// shown to the user.
	maxErrorBody = 400
)

// Options carries the per-call resolved configuration. Callers resolve these
// through config.Resolver on every call; the client holds no credentials of
// its own.
type Options struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Clock supplies the current time string used to enrich the system prompt.
// A nil Clock disables enrichment.
type Clock interface {
	Now(ctx context.Context) string
}

// Client sends one chat completion request per call. No retries, no
// streaming; every failure class comes back as a *core.Warning so the
// conversation can continue with the warning as the visible reply.
type Client struct {
	clock  Clock
	logger *core.Logger
}

// NewClient creates a completion client. clock may be nil.
func NewClient(clock Clock, logger *core.Logger) *Client {
	return &Client{clock: clock, logger: logger}
}

// Complete sends the live system prompt plus the user/assistant history and
// returns the assistant's reply text.
//
// The system prompt is the current configured value at call time — never the
// conversation's stored placeholder — optionally augmented with a fresh
// timestamp from the Clock. Exactly one attempt is made.
func (c *Client) Complete(ctx context.Context, opts Options, systemPrompt string, history []core.Turn) (string, error) {
	if opts.APIKey == "" {
		return "", core.Warningf("completion", "no API key configured. Set one in settings or via OPENAI_API_KEY.")
	}

	if c.clock != nil {
		systemPrompt += "\n\nCurrent date and time: " + c.clock.Now(ctx)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, t := range history {
		if t.Role != core.RoleUser && t.Role != core.RoleAssistant {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout}
	client := openai.NewClientWithConfig(cfg)

	requestID := uuid.NewString()
	c.logger.Debug("sending completion request",
		"request_id", requestID,
		"model", opts.Model,
		"messages", len(messages),
	)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		warning := warningFromError(err)
		c.logger.Warn("completion failed",
			"request_id", requestID,
			"error", warning.Message,
		)
		return "", warning
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", core.Warningf("completion", "empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// warningFromError maps the client library's error types onto the warning
// taxonomy: non-success status with code and truncated body, or a transport
// fault description.
func warningFromError(err error) *core.Warning {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return core.Warningf("completion", "API error %d: %s", apiErr.HTTPStatusCode, truncate(apiErr.Message, maxErrorBody))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return core.Warningf("completion", "API error %d: %s", reqErr.HTTPStatusCode, truncate(string(reqErr.Body), maxErrorBody))
	}
	return core.Warningf("completion", "request failed: %v", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
