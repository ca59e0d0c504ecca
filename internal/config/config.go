package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the inbox TUI.
type Config struct {
	// Store API
	APIBase string `json:"api_base"`
	Agent   string `json:"agent"` // dashboard identity, used as recipient and sender

	// Paging
	PageSize int `json:"page_size"`

	// Snapshot cache
	CacheTTL string `json:"cache_ttl"` // duration string, e.g. "5m"

	// Recipients allow-list file (YAML). Empty disables the allow-list.
	RecipientsFile string `json:"recipients_file"`

	// Request timeout for store calls
	Timeout string `json:"timeout"`

	// Keyboard shortcuts
	Keys KeyBindings `json:"keys"`

	// Logging
	LogFile string `json:"log_file"`
}

// KeyBindings are the configurable single-key shortcuts of the list view.
type KeyBindings struct {
	Compose    string `json:"compose"`
	Reply      string `json:"reply"`
	Edit       string `json:"edit"`
	Refresh    string `json:"refresh"`
	LoadMore   string `json:"load_more"`
	ToggleRead string `json:"toggle_read"`
	Archive    string `json:"archive"`
	Unarchive  string `json:"unarchive"`
	NextFolder string `json:"next_folder"`
	Help       string `json:"help"`
	Quit       string `json:"quit"`
}

// DefaultKeyBindings returns the default shortcuts.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		Compose:    "c",
		Reply:      "r",
		Edit:       "e",
		Refresh:    "R",
		LoadMore:   "m",
		ToggleRead: "t",
		Archive:    "a",
		Unarchive:  "u",
		NextFolder: "f",
		Help:       "?",
		Quit:       "q",
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBase:  "http://localhost:8000/api/v1",
		Agent:    "claude_code",
		PageSize: 50,
		CacheTTL: "5m",
		Timeout:  "10s",
		Keys:     DefaultKeyBindings(),
		LogFile:  "",
	}
}

// LoadConfig loads configuration from path, layered over defaults. A
// missing file is not an error; a malformed one is.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", configPath, err)
			}
		}
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}

	return cfg, nil
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inboxtui", "config.json")
}

// DefaultCacheDir returns the default cache directory path.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inboxtui", "cache")
}

// DefaultLogDir returns the default log directory path.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "inboxtui")
}

// SaveConfig writes the configuration to a file, creating directories as
// needed.
func (c *Config) SaveConfig(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetCacheTTL returns the parsed snapshot cache TTL.
func (c *Config) GetCacheTTL() time.Duration {
	if d, err := time.ParseDuration(c.CacheTTL); err == nil && d > 0 {
		return d
	}
	return 5 * time.Minute
}

// GetTimeout returns the parsed store request timeout.
func (c *Config) GetTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Timeout); err == nil && d > 0 {
		return d
	}
	return 10 * time.Second
}

// recipientsFile is the YAML shape of the allow-list file.
type recipientsFile struct {
	Recipients []string `yaml:"recipients"`
}

// LoadRecipients reads the recipients allow-list. An empty path returns
// nil, which disables recipient validation.
func LoadRecipients(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipients file: %w", err)
	}
	var f recipientsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse recipients file: %w", err)
	}
	out := make([]string, 0, len(f.Recipients))
	for _, r := range f.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out, nil
}
