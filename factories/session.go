// Package factories constructs sessions and their collaborators from
// declarative configs. Each factory config is a tagged variant: exactly one
// provider field is set and selection happens here, not at call sites.
package factories

import (
	"fmt"
	"os"

	"alisa/config"
	"alisa/core"
	"alisa/services/gtranslate/tts"
	"alisa/services/openai/llm"
	"alisa/services/openai/stt"
	"alisa/services/worldtime"
	"alisa/session"
	"alisa/storage/sqlite"

	"github.com/bytedance/sonic"
)

// SessionFactoryConfig is the top-level configuration for building a
// complete session: storage backend selection, time enrichment, optional
// speech synthesis, and the session identity.
type SessionFactoryConfig struct {
	// Storage selects and configures the persistence backend.
	Storage StorageFactoryConfig `json:"storage"`
	// Time configures the time-enrichment service for the system prompt.
	Time worldtime.Config `json:"time,omitempty"`
	// TTS, when set, enables the speech synthesizer. When nil, voice output
	// is unavailable and is skipped with a warning.
	TTS *tts.Config `json:"tts,omitempty"`
	// SessionID and UserName seed the session identity. An empty SessionID
	// defaults to a time-derived value.
	SessionID string `json:"session_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`
	// Settings are the initial live settings (sidebar equivalents).
	Settings session.Settings `json:"settings,omitempty"`
}

// DefaultSessionFactoryConfig returns a config using the local SQLite
// backend at the resolver's database path.
func DefaultSessionFactoryConfig(resolver *config.Resolver) SessionFactoryConfig {
	return SessionFactoryConfig{
		Storage: StorageFactoryConfig{
			SQLiteConfig: &sqlite.Config{Path: resolver.DBPath()},
		},
	}
}

// SessionFactoryConfigFromJSON parses a JSON blob into a SessionFactoryConfig.
func SessionFactoryConfigFromJSON(data []byte) (SessionFactoryConfig, error) {
	var cfg SessionFactoryConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return SessionFactoryConfig{}, fmt.Errorf("session config: %w", err)
	}
	return cfg, nil
}

// SessionFactoryConfigFromFile reads and parses a SessionFactoryConfig from
// a JSON file.
func SessionFactoryConfigFromFile(path string) (SessionFactoryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionFactoryConfig{}, fmt.Errorf("session config: read %q: %w", path, err)
	}
	return SessionFactoryConfigFromJSON(data)
}

// BuildSession constructs a ready-to-use session with all collaborators
// wired: storage backend, completion and transcription clients, time
// enrichment, and optional speech synthesis.
func BuildSession(cfg SessionFactoryConfig, resolver *config.Resolver, logger *core.Logger) (*session.Session, error) {
	backend, err := BuildBackend(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	clock := worldtime.New(cfg.Time, logger)

	var synthesizer session.Synthesizer
	if cfg.TTS != nil {
		synthesizer = tts.New(*cfg.TTS, logger)
	}

	return session.New(session.Params{
		ID:          cfg.SessionID,
		UserName:    cfg.UserName,
		Settings:    cfg.Settings,
		Resolver:    resolver,
		Backend:     backend,
		Completer:   llm.NewClient(clock, logger),
		Transcriber: stt.NewClient(logger),
		Synthesizer: synthesizer,
		Logger:      logger,
	}), nil
}
