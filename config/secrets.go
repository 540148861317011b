// Package config resolves runtime configuration from layered sources:
// explicit caller-supplied values, process environment variables, and a
// secrets file. Resolution happens on every call so values edited between
// interactions take effect immediately.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
)

// Secret keys recognised in the secrets file.
const (
	SecretAPIKey       = "OPENAI_API_KEY"
	SecretBaseURL      = "OPENAI_BASE_URL"
	SecretModel        = "MODEL"
	SecretSystemPrompt = "SYSTEM_PROMPT"
	SecretWhisperModel = "WHISPER_MODEL"
	SecretSupabaseURL  = "SUPABASE_URL"
	SecretSupabaseKey  = "SUPABASE_KEY"
)

// Secrets is the flat key/value store backing the lowest non-default
// resolution layer. It is loaded once from a JSON file; a missing file is
// not an error, it just yields an empty store.
type Secrets map[string]string

// LoadSecrets reads a Secrets map from a JSON file.
func LoadSecrets(path string) (Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("secrets: read %q: %w", path, err)
	}
	var s Secrets
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("secrets: parse %q: %w", path, err)
	}
	return s, nil
}

// Get returns the trimmed value for key, or "" when absent.
func (s Secrets) Get(key string) string {
	return strings.TrimSpace(s[key])
}
