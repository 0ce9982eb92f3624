// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all contacts configuration.
type Config struct {
	API API `yaml:"api"`
	Log Log `yaml:"log"`
	UI  UI  `yaml:"ui"`
}

// API holds backend connection settings.
type API struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Log holds diagnostic logging settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
	File  string `yaml:"file"`  // Empty selects DefaultLogFile().
}

// UI holds terminal UI settings.
type UI struct {
	AltScreen bool `yaml:"alt_screen"`
}

// DefaultBaseURL is the backend address used when none is configured.
const DefaultBaseURL = "http://localhost:5000"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: API{
			BaseURL: DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
		UI: UI{
			AltScreen: true,
		},
	}
}

// DefaultPaths returns the user and project config paths, lowest priority first.
func DefaultPaths() []string {
	return []string{
		os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
		".contacts.yaml",
	}
}

// DefaultLogFile returns the log path used when log.file is empty.
// It honors XDG_STATE_HOME and falls back to ~/.local/state.
func DefaultLogFile() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "state")
	}
	return filepath.Join(base, "contacts", "contacts.log")
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("config: api.base_url %q: %w", c.API.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %v", c.API.Timeout)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// A .env file in the working directory is loaded first; variables already
// set in the environment take precedence over it.
// Supported variables: CONTACTS_API_URL, CONTACTS_API_TIMEOUT,
// CONTACTS_LOG_LEVEL, CONTACTS_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: loading .env: %w", err)
	}

	if v := os.Getenv("CONTACTS_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CONTACTS_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTS_API_TIMEOUT %q: %w", v, err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("CONTACTS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CONTACTS_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// LogFile returns the configured log path, or DefaultLogFile() when unset.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return DefaultLogFile()
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	API *rawAPI `yaml:"api"`
	Log *rawLog `yaml:"log"`
	UI  *rawUI  `yaml:"ui"`
}

type rawAPI struct {
	BaseURL *string        `yaml:"base_url"`
	Timeout *time.Duration `yaml:"timeout"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

type rawUI struct {
	AltScreen *bool `yaml:"alt_screen"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.API != nil {
		if layer.API.BaseURL != nil {
			c.API.BaseURL = *layer.API.BaseURL
		}
		if layer.API.Timeout != nil {
			c.API.Timeout = *layer.API.Timeout
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
	if layer.UI != nil {
		if layer.UI.AltScreen != nil {
			c.UI.AltScreen = *layer.UI.AltScreen
		}
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("config: encoding: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encoding: %w", err)
	}
	return buf.Bytes(), nil
}
