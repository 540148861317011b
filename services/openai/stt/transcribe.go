// Package stt implements voice transcription against an OpenAI-compatible
// audio transcriptions endpoint (Whisper-style multipart upload).
package stt

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"alisa/core"

	openai "github.com/sashabaranov/go-openai"
)

const (
	requestTimeout = 120 * time.Second

	maxErrorBody = 300
)

// Options carries the per-call resolved configuration.
type Options struct {
	BaseURL string
	APIKey  string
	// Model is the transcription model, e.g. whisper-1.
	Model string
}

// Client uploads raw audio and returns the decoded text. Failures become
// *core.Warning values; a missing API key short-circuits before any network
// call.
type Client struct {
	logger *core.Logger
}

func NewClient(logger *core.Logger) *Client {
	return &Client{logger: logger}
}

// Transcribe sends the audio bytes as a multipart upload and returns the
// decoded text.
func (c *Client) Transcribe(ctx context.Context, opts Options, audio []byte, filename string) (string, error) {
	if opts.APIKey == "" {
		return "", core.Warningf("transcription", "no API key configured; cannot transcribe audio")
	}
	if filename == "" {
		filename = "audio.wav"
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = opts.BaseURL
	cfg.HTTPClient = &http.Client{Timeout: requestTimeout}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    opts.Model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		warning := warningFromError(err)
		c.logger.Warn("transcription failed", "error", warning.Message)
		return "", warning
	}
	return resp.Text, nil
}

func warningFromError(err error) *core.Warning {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return core.Warningf("transcription", "STT error %d: %s", apiErr.HTTPStatusCode, truncate(apiErr.Message, maxErrorBody))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return core.Warningf("transcription", "STT error %d: %s", reqErr.HTTPStatusCode, truncate(string(reqErr.Body), maxErrorBody))
	}
	return core.Warningf("transcription", "STT failed: %v", err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
