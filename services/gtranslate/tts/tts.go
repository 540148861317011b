// Package tts implements speech synthesis over the Google Translate TTS
// HTTP endpoint, returning MP3 audio for short reply texts.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"alisa/core"
)

const (
	defaultBaseURL = "https://translate.google.com/translate_tts"

	requestTimeout = 30 * time.Second
)

// Config holds configuration for the synthesizer.
type Config struct {
	BaseURL string `json:"base_url"`
}

// Synthesizer converts reply text to MP3 bytes. Synthesis is best-effort:
// any fault yields nil audio and a *core.Warning, and the caller skips the
// voice output.
type Synthesizer struct {
	config     Config
	httpClient *http.Client
	logger     *core.Logger
}

// New creates a synthesizer. A zero-value config uses the public endpoint.
func New(cfg Config, logger *core.Logger) *Synthesizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Synthesizer{
		config:     cfg,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// Synthesize returns MP3 bytes for text in the given language code
// ("en", "ur", ...).
func (s *Synthesizer) Synthesize(ctx context.Context, text, langCode string) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", langCode)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, core.Warningf("tts", "TTS failed: %v", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, core.Warningf("tts", "TTS failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.Warningf("tts", "TTS failed: status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.Warningf("tts", "TTS failed: %v", err)
	}
	if len(audio) == 0 {
		return nil, core.Warningf("tts", "TTS returned no audio")
	}

	s.logger.Debug(fmt.Sprintf("synthesized %d bytes of audio", len(audio)))
	return audio, nil
}
