package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"alisa/config"
)

func TestResolver_APIKeyPrecedence(t *testing.T) {
	secrets := config.Secrets{config.SecretAPIKey: "secret-key"}

	tests := []struct {
		name     string
		explicit string
		env      string
		want     string
	}{
		{name: "explicit wins", explicit: "explicit-key", env: "env-key", want: "explicit-key"},
		{name: "env beats secret", explicit: "", env: "env-key", want: "env-key"},
		{name: "secret is last resort", explicit: "", env: "", want: "secret-key"},
		{name: "explicit is trimmed", explicit: "  padded-key  ", env: "", want: "padded-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.EnvAPIKey, tt.env)
			r := config.NewResolver(secrets)
			if got := r.APIKey(tt.explicit); got != tt.want {
				t.Fatalf("APIKey = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolver_APIKeyAllEmpty(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	r := config.NewResolver(nil)
	if got := r.APIKey(""); got != "" {
		t.Fatalf("APIKey = %q, want empty", got)
	}
}

func TestResolver_ModelFallsBackToDefault(t *testing.T) {
	t.Setenv(config.EnvModel, "")
	r := config.NewResolver(nil)
	if got := r.Model(""); got != config.DefaultModel {
		t.Fatalf("Model = %q, want %q", got, config.DefaultModel)
	}
}

func TestResolver_BaseURLSkipsEnvironment(t *testing.T) {
	// The base URL has no env layer: even with OPENAI_BASE_URL set in the
	// environment, only explicit and secrets values are consulted.
	t.Setenv("OPENAI_BASE_URL", "https://env.example.com/v1")

	r := config.NewResolver(nil)
	if got := r.BaseURL(""); got != config.DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want default %q", got, config.DefaultBaseURL)
	}

	r = config.NewResolver(config.Secrets{config.SecretBaseURL: "https://secret.example.com/v1"})
	if got := r.BaseURL(""); got != "https://secret.example.com/v1" {
		t.Fatalf("BaseURL = %q, want secret value", got)
	}
	if got := r.BaseURL("https://explicit.example.com/v1"); got != "https://explicit.example.com/v1" {
		t.Fatalf("BaseURL = %q, want explicit value", got)
	}
}

func TestResolver_ReEvaluatesPerCall(t *testing.T) {
	t.Setenv(config.EnvModel, "")
	r := config.NewResolver(nil)

	if got := r.Model("first"); got != "first" {
		t.Fatalf("Model = %q, want first", got)
	}
	// The explicit value changed between calls; no caching may hide that.
	if got := r.Model("second"); got != "second" {
		t.Fatalf("Model = %q, want second", got)
	}
}

func TestResolver_SystemPromptByLanguage(t *testing.T) {
	r := config.NewResolver(nil)

	en := r.SystemPrompt("", config.LanguageEnglish)
	ur := r.SystemPrompt("", config.LanguageUrdu)
	if en == ur {
		t.Fatal("expected language-specific default prompts to differ")
	}
	if got := r.SystemPrompt("custom prompt", config.LanguageEnglish); got != "custom prompt" {
		t.Fatalf("SystemPrompt = %q, want explicit value", got)
	}
}

func TestLoadSecrets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets.json")
	if err := os.WriteFile(path, []byte(`{"MODEL":" gpt-4o ","OPENAI_BASE_URL":"https://proxy.example.com/v1"}`), 0o600); err != nil {
		t.Fatalf("prep: %v", err)
	}

	s, err := config.LoadSecrets(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Get(config.SecretModel); got != "gpt-4o" {
		t.Fatalf("Get(MODEL) = %q, want trimmed value", got)
	}
}

func TestLoadSecrets_MissingFileIsEmpty(t *testing.T) {
	s, err := config.LoadSecrets(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(s) != 0 {
		t.Fatalf("expected empty secrets, got %v", s)
	}
}

func TestLoadSecrets_InvalidJSONIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o600); err != nil {
		t.Fatalf("prep: %v", err)
	}
	if _, err := config.LoadSecrets(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
