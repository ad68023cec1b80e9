package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"scanner_go/internal/domain"
)

const (
	// DefaultUserAgent is a browser-like user agent string to avoid bot detection
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds all application settings. Sensitive or deploy-specific values
// can be overridden through environment variables after loading.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Scanner struct {
			HTTPURL string `yaml:"http_url"`
			WSURL   string `yaml:"ws_url"`
		} `yaml:"scanner"`
	} `yaml:"api"`

	// Filter is the view active at startup, until the user changes it.
	Filter domain.ScannerFilter `yaml:"filter"`

	Feed struct {
		PingIntervalSec int `yaml:"ping_interval_sec"`
		ReadTimeoutSec  int `yaml:"read_timeout_sec"`
		InboxSize       int `yaml:"inbox_size"`
	} `yaml:"feed"`

	UI struct {
		UpdateIntervalMS int `yaml:"update_interval_ms"`
	} `yaml:"ui"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.API.Scanner.HTTPURL == "" || (!hasPrefix(c.API.Scanner.HTTPURL, "http://") && !hasPrefix(c.API.Scanner.HTTPURL, "https://")) {
		return fmt.Errorf("invalid scanner HTTP URL: %s", c.API.Scanner.HTTPURL)
	}
	if c.API.Scanner.WSURL == "" || (!hasPrefix(c.API.Scanner.WSURL, "ws://") && !hasPrefix(c.API.Scanner.WSURL, "wss://")) {
		return fmt.Errorf("invalid scanner WS URL: %s", c.API.Scanner.WSURL)
	}
	if len(c.Filter.Chains) == 0 {
		return fmt.Errorf("at least one chain is required in the startup filter")
	}
	if c.Feed.PingIntervalSec <= 0 {
		c.Feed.PingIntervalSec = 30
	}
	if c.Feed.ReadTimeoutSec <= 0 {
		c.Feed.ReadTimeoutSec = 60
	}
	if c.Feed.InboxSize <= 0 {
		c.Feed.InboxSize = 1024
	}
	if c.UI.UpdateIntervalMS <= 0 {
		return fmt.Errorf("update interval must be positive")
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment overrides when present.
func overrideWithEnv(cfg *Config) {
	if u := os.Getenv("SCANNER_HTTP_URL"); u != "" {
		cfg.API.Scanner.HTTPURL = u
	}
	if u := os.Getenv("SCANNER_WS_URL"); u != "" {
		cfg.API.Scanner.WSURL = u
	}
}
