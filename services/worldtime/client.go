// Package worldtime fetches the current wall-clock time from a remote time
// service. It exists purely to enrich the system prompt; every failure falls
// back to the local clock and nothing here can fail a completion call.
package worldtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"alisa/core"

	"github.com/bytedance/sonic"
)

const (
	// DefaultBaseURL is the public world time service.
	DefaultBaseURL = "https://worldtimeapi.org"
	// DefaultTimezone is used when no timezone is configured.
	DefaultTimezone = "Etc/UTC"

	// localClockLayout formats the fallback local-clock reading.
	localClockLayout = "2006-01-02 15:04"

	requestTimeout = 5 * time.Second
)

// Config holds configuration for the time-enrichment client.
type Config struct {
	BaseURL  string `json:"base_url"`
	Timezone string `json:"timezone"`
}

// Client resolves the current time string, remote-first with a local
// fallback.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *core.Logger
}

// New creates a time client. Zero-value config fields take the defaults.
func New(cfg Config, logger *core.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

type timezoneResponse struct {
	Datetime string `json:"datetime"`
}

// Now returns the current time formatted as "YYYY-MM-DD HH:MM". The remote
// service is asked first; on any failure the local system clock is used and
// a warning is logged. Now never returns an error.
func (c *Client) Now(ctx context.Context) string {
	remote, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("time service unavailable, using local clock", "error", err.Error())
		return time.Now().Format(localClockLayout)
	}
	return remote
}

func (c *Client) fetch(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/api/timezone/%s", c.config.BaseURL, c.config.Timezone)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("worldtime: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("worldtime: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("worldtime: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("worldtime: read response: %w", err)
	}

	var tz timezoneResponse
	if err := sonic.Unmarshal(body, &tz); err != nil {
		return "", fmt.Errorf("worldtime: decode response: %w", err)
	}
	if tz.Datetime == "" {
		return "", fmt.Errorf("worldtime: empty datetime field")
	}

	parsed, err := time.Parse(time.RFC3339Nano, tz.Datetime)
	if err != nil {
		// The service answered with something we can still show verbatim.
		return tz.Datetime, nil
	}
	return parsed.Format(localClockLayout), nil
}
