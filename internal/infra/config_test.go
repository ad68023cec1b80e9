package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const validConfigYAML = `
app:
  name: "ScannerGo"
  version: "0.1.0"
api:
  scanner:
    http_url: "https://api.example.com"
    ws_url: "wss://api.example.com/ws"
filter:
  chains: ["SOL"]
  min_volume_24h: 1000
  exclude_honeypot: true
  rank_by: "volume"
  order: "desc"
feed:
  ping_interval_sec: 15
ui:
  update_interval_ms: 250
logging:
  level: "debug"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.App.Name != "ScannerGo" {
		t.Errorf("Expected app name ScannerGo, got %s", cfg.App.Name)
	}
	if cfg.API.Scanner.WSURL != "wss://api.example.com/ws" {
		t.Errorf("Unexpected WS URL: %s", cfg.API.Scanner.WSURL)
	}
	if len(cfg.Filter.Chains) != 1 || cfg.Filter.Chains[0] != "SOL" {
		t.Errorf("Unexpected startup filter chains: %v", cfg.Filter.Chains)
	}
	if !cfg.Filter.ExcludeHoneypot {
		t.Error("Expected honeypot exclusion enabled")
	}
	if cfg.Feed.PingIntervalSec != 15 {
		t.Errorf("Expected ping interval 15, got %d", cfg.Feed.PingIntervalSec)
	}

	// Omitted feed values pick up their defaults.
	if cfg.Feed.ReadTimeoutSec != 60 {
		t.Errorf("Expected default read timeout 60, got %d", cfg.Feed.ReadTimeoutSec)
	}
	if cfg.Feed.InboxSize != 1024 {
		t.Errorf("Expected default inbox size 1024, got %d", cfg.Feed.InboxSize)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SCANNER_HTTP_URL", "https://override.example.com")
	t.Setenv("SCANNER_WS_URL", "wss://override.example.com/ws")

	cfg, err := LoadConfig(writeConfig(t, validConfigYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Scanner.HTTPURL != "https://override.example.com" {
		t.Errorf("Expected env override applied, got %s", cfg.API.Scanner.HTTPURL)
	}
	if cfg.API.Scanner.WSURL != "wss://override.example.com/ws" {
		t.Errorf("Expected env override applied, got %s", cfg.API.Scanner.WSURL)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.API.Scanner.HTTPURL = "https://api.example.com"
		cfg.API.Scanner.WSURL = "wss://api.example.com/ws"
		cfg.Filter.Chains = []string{"SOL"}
		cfg.UI.UpdateIntervalMS = 500
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	t.Run("bad http url", func(t *testing.T) {
		cfg := valid()
		cfg.API.Scanner.HTTPURL = "ftp://nope"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for non-http URL")
		}
	})

	t.Run("bad ws url", func(t *testing.T) {
		cfg := valid()
		cfg.API.Scanner.WSURL = "https://not-ws"
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for non-ws URL")
		}
	})

	t.Run("no chains", func(t *testing.T) {
		cfg := valid()
		cfg.Filter.Chains = nil
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for empty chain list")
		}
	})

	t.Run("bad ui interval", func(t *testing.T) {
		cfg := valid()
		cfg.UI.UpdateIntervalMS = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Expected error for zero update interval")
		}
	})
}
