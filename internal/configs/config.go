package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

const (
	// EnvDataDir overrides the data directory.
	EnvDataDir = "CIPHERBOARD_DATA_DIR"
	// EnvSessionTimeout overrides the session timeout, e.g. "15m".
	EnvSessionTimeout = "CIPHERBOARD_SESSION_TIMEOUT"

	// DefaultSessionTimeout matches the server's default login lifetime.
	DefaultSessionTimeout = "30m"
)

// ClientConfig is the user's cipherboard configuration.
type ClientConfig struct {
	// DataDir is the root of the local server store, audit log and metrics.
	DataDir string `toml:"data_dir"`
	// SessionTimeout is how long a login stays valid, as a Go duration.
	SessionTimeout string `toml:"session_timeout"`
	// MetricsFile is where operation counters are kept between runs.
	MetricsFile string `toml:"metrics_file"`
}

// DefaultClientConfig returns the configuration used when no file exists.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		DataDir:        UserSettings.DataPath,
		SessionTimeout: DefaultSessionTimeout,
		MetricsFile:    filepath.Join(UserSettings.DataPath, "metrics.prom"),
	}
}

// LoadClientConfig reads config.toml over the defaults and applies
// environment overrides. A missing file is not an error.
func LoadClientConfig() (*ClientConfig, error) {
	config := DefaultClientConfig()

	configPath := UserSettings.ConfigFile()
	if _, err := os.Stat(configPath); err == nil {
		if err := LoadTOML(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load client config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat client config: %w", err)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		config.DataDir = dir
	}
	if timeout := os.Getenv(EnvSessionTimeout); timeout != "" {
		config.SessionTimeout = timeout
	}

	if _, err := config.Timeout(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveClientConfig writes the configuration to config.toml.
func SaveClientConfig(config *ClientConfig) error {
	if err := SaveTOML(UserSettings.ConfigFile(), config); err != nil {
		return fmt.Errorf("failed to save client config: %w", err)
	}
	return nil
}

// Timeout parses SessionTimeout.
func (c *ClientConfig) Timeout() (time.Duration, error) {
	if c.SessionTimeout == "" {
		c.SessionTimeout = DefaultSessionTimeout
	}
	d, err := time.ParseDuration(c.SessionTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: session_timeout must be a positive duration, got %q", kerrors.ErrInvalidInput, c.SessionTimeout)
	}
	return d, nil
}

// AuditLogPath is the audit log inside the data directory.
func (c *ClientConfig) AuditLogPath() string {
	return filepath.Join(c.DataDir, "audit.jsonl")
}

// StorePath is the root of the local server store.
func (c *ClientConfig) StorePath() string {
	return filepath.Join(c.DataDir, "store")
}

// Keys lists the settable configuration keys.
func Keys() []string {
	keys := make([]string, 0, len(configFields))
	for key := range configFields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var configFields = map[string]func(*ClientConfig) *string{
	"data_dir":        func(c *ClientConfig) *string { return &c.DataDir },
	"session_timeout": func(c *ClientConfig) *string { return &c.SessionTimeout },
	"metrics_file":    func(c *ClientConfig) *string { return &c.MetricsFile },
}

// Get returns the value of a configuration key.
func (c *ClientConfig) Get(key string) (string, error) {
	field, ok := configFields[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown config key %q", kerrors.ErrInvalidInput, key)
	}
	return *field(c), nil
}

// Set assigns a configuration key, validating durations.
func (c *ClientConfig) Set(key, value string) error {
	field, ok := configFields[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", kerrors.ErrInvalidInput, key)
	}

	previous := *field(c)
	*field(c) = value
	if key == "session_timeout" {
		if _, err := c.Timeout(); err != nil {
			*field(c) = previous
			return err
		}
	}
	return nil
}
