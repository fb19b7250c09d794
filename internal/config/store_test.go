package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_NonexistentReturnsDefault(t *testing.T) {
	cfg, err := LoadFrom("/tmp/violentutf-test-nonexistent/config.json")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.CurrentContext != "local" {
		t.Errorf("expected current context 'local', got %q", cfg.CurrentContext)
	}
	ctx := cfg.Contexts["local"]
	if ctx == nil {
		t.Fatal("expected 'local' context to exist")
	}
	if ctx.URL != defaultURL {
		t.Errorf("expected URL %q, got %q", defaultURL, ctx.URL)
	}
}

func TestSaveToAndLoadFrom_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := &Config{
		CurrentContext: "staging",
		Contexts: map[string]*Context{
			"local": {URL: defaultURL},
			"staging": {
				URL:    "https://staging.example.com/mcp",
				APIKey: "key-123",
				Identity: &Identity{
					Username: "tester",
					Email:    "tester@example.com",
					Roles:    []string{"ai-api-access"},
				},
			},
		},
	}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if loaded.CurrentContext != "staging" {
		t.Errorf("expected current context 'staging', got %q", loaded.CurrentContext)
	}
	if len(loaded.Contexts) != 2 {
		t.Errorf("expected 2 contexts, got %d", len(loaded.Contexts))
	}
	staging := loaded.Contexts["staging"]
	if staging.URL != "https://staging.example.com/mcp" {
		t.Errorf("staging URL mismatch: %q", staging.URL)
	}
	if staging.Identity == nil || staging.Identity.Username != "tester" {
		t.Errorf("identity did not round-trip: %+v", staging.Identity)
	}
}

func TestCurrentURL_ReturnsContextURL(t *testing.T) {
	cfg := &Config{
		CurrentContext: "prod",
		Contexts: map[string]*Context{
			"prod": {URL: "https://prod.example.com/mcp"},
		},
	}
	if got := cfg.CurrentURL(); got != "https://prod.example.com/mcp" {
		t.Errorf("expected prod URL, got %q", got)
	}
}

func TestCurrentURL_EnvOverrideWins(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://override.example.com/mcp")
	cfg := &Config{
		CurrentContext: "prod",
		Contexts: map[string]*Context{
			"prod": {URL: "https://prod.example.com/mcp"},
		},
	}
	if got := cfg.CurrentURL(); got != "https://override.example.com/mcp" {
		t.Errorf("expected env override, got %q", got)
	}
}

func TestCurrentURL_FallbackDefault(t *testing.T) {
	cfg := &Config{
		CurrentContext: "",
		Contexts:       map[string]*Context{},
	}
	if got := cfg.CurrentURL(); got != defaultURL {
		t.Errorf("expected fallback %q, got %q", defaultURL, got)
	}
}

func TestCurrent_NilWhenMissing(t *testing.T) {
	cfg := &Config{
		CurrentContext: "nonexistent",
		Contexts:       map[string]*Context{},
	}
	if ctx := cfg.Current(); ctx != nil {
		t.Errorf("expected nil for missing context, got %+v", ctx)
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("{invalid json"), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected error containing 'parse config', got %q", err.Error())
	}
}

func TestSaveTo_CreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "config.json")

	cfg := defaultConfig()
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo should create parent dirs, got: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist at %s", path)
	}
}
