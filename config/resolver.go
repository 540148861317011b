package config

import (
	"os"
	"strings"
)

// Hardcoded defaults applied when every other layer is empty.
const (
	DefaultBaseURL      = "https://api.openai.com/v1"
	DefaultModel        = "gpt-4o-mini"
	DefaultWhisperModel = "whisper-1"
	DefaultDBPath       = "alisa.db"
)

// Environment variable names consulted by the resolver.
const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvModel       = "MODEL"
	EnvDBPath      = "ALISA_DB_PATH"
	EnvSupabaseURL = "SUPABASE_URL"
	EnvSupabaseKey = "SUPABASE_KEY"
)

// Resolver resolves configuration values with strict precedence: the first
// non-empty value wins. Every method re-reads its sources on each call —
// nothing is cached, so an explicit value edited between calls within the
// same process takes effect on the next call.
type Resolver struct {
	Secrets Secrets
}

// NewResolver builds a Resolver over the given secrets store. A nil secrets
// map behaves as an empty one.
func NewResolver(secrets Secrets) *Resolver {
	if secrets == nil {
		secrets = Secrets{}
	}
	return &Resolver{Secrets: secrets}
}

// APIKey resolves explicit → OPENAI_API_KEY env → secrets → empty.
// An empty result is not an error; downstream clients surface a
// "no API key" warning instead.
func (r *Resolver) APIKey(explicit string) string {
	return firstNonEmpty(
		explicit,
		os.Getenv(EnvAPIKey),
		r.Secrets.Get(SecretAPIKey),
	)
}

// Model resolves explicit → MODEL env → secrets → DefaultModel.
func (r *Resolver) Model(explicit string) string {
	return firstNonEmpty(
		explicit,
		os.Getenv(EnvModel),
		r.Secrets.Get(SecretModel),
		DefaultModel,
	)
}

// BaseURL resolves explicit → secrets → DefaultBaseURL.
// There is deliberately no environment-variable layer for the base URL.
func (r *Resolver) BaseURL(explicit string) string {
	return firstNonEmpty(
		explicit,
		r.Secrets.Get(SecretBaseURL),
		DefaultBaseURL,
	)
}

// SystemPrompt resolves explicit → secrets → the language-specific default.
func (r *Resolver) SystemPrompt(explicit string, lang Language) string {
	return firstNonEmpty(
		explicit,
		r.Secrets.Get(SecretSystemPrompt),
		lang.DefaultSystemPrompt(),
	)
}

// WhisperModel resolves secrets → DefaultWhisperModel.
func (r *Resolver) WhisperModel() string {
	return firstNonEmpty(
		r.Secrets.Get(SecretWhisperModel),
		DefaultWhisperModel,
	)
}

// DBPath resolves ALISA_DB_PATH env → DefaultDBPath.
func (r *Resolver) DBPath() string {
	return firstNonEmpty(
		os.Getenv(EnvDBPath),
		DefaultDBPath,
	)
}

// SupabaseURL resolves SUPABASE_URL env → secrets → empty.
func (r *Resolver) SupabaseURL() string {
	return firstNonEmpty(
		os.Getenv(EnvSupabaseURL),
		r.Secrets.Get(SecretSupabaseURL),
	)
}

// SupabaseKey resolves SUPABASE_KEY env → secrets → empty.
func (r *Resolver) SupabaseKey() string {
	return firstNonEmpty(
		os.Getenv(EnvSupabaseKey),
		r.Secrets.Get(SecretSupabaseKey),
	)
}

// firstNonEmpty returns the first value that is non-empty after trimming
// surrounding whitespace, trimmed.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
