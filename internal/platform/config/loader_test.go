package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_Load(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, ".config.yaml")

	configContent := `
server:
  ip: "127.0.0.1"
  port: 8080
log:
  log_level: "debug"
  log_dir: "/tmp/logs"
  log_file: "test.log"
web:
  enabled: true
  port: 8081
selected_provider:
  provider: "openai"
providers:
  openai:
    type: "openai"
    model_name: "gpt-4o-mini"
    api_key: "sk-from-file"
GEMINI_API_KEY: "flat-key-value"
`

	err := os.WriteFile(configFile, []byte(configContent), 0o644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader().WithDotEnv(false).WithPath(configFile)
	result, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg := result.Config

	if cfg.Server.IP != "127.0.0.1" {
		t.Errorf("expected server IP 127.0.0.1, got %s", cfg.Server.IP)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected server port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Selected.Provider != "openai" {
		t.Errorf("expected selected provider openai, got %s", cfg.Selected.Provider)
	}
	if cfg.Providers["openai"].APIKey != "sk-from-file" {
		t.Errorf("expected nested api_key from file, got %q", cfg.Providers["openai"].APIKey)
	}
	if cfg.FlatKey("GEMINI_API_KEY") != "flat-key-value" {
		t.Errorf("expected flat root key to be collected, got %q", cfg.FlatKey("GEMINI_API_KEY"))
	}
}

func TestLoader_LoadMissingFile(t *testing.T) {
	loader := NewLoader().WithDotEnv(false).WithPath(filepath.Join(t.TempDir(), "absent.yaml"))

	result, err := loader.Load()
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if result.Path != "" {
		t.Errorf("expected empty path for defaults, got %q", result.Path)
	}
	if result.Config.Selected.Provider != "gemini" {
		t.Errorf("expected default provider gemini, got %s", result.Config.Selected.Provider)
	}
}

func TestFlatKey_NonString(t *testing.T) {
	cfg := &Config{Extra: map[string]interface{}{"SOME_PORT": 8080}}
	if got := cfg.FlatKey("SOME_PORT"); got != "" {
		t.Errorf("non-string flat key should resolve empty, got %q", got)
	}
	if got := cfg.FlatKey("MISSING"); got != "" {
		t.Errorf("missing flat key should resolve empty, got %q", got)
	}
}
