package configs

import (
	"log"
	"os"
	"path/filepath"
)

// Settings holds the per-user locations cipherboard reads and writes.
type Settings struct {
	// ConfigPath holds config.toml and the session file.
	ConfigPath string
	// DataPath is the default root of the local server store, audit log and metrics.
	DataPath string
}

// UserSettings is initialised from the environment at startup.
var UserSettings *Settings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserSettings = &Settings{
		ConfigPath: filepath.Join(configDir, "cipherboard"),
		DataPath:   filepath.Join(dataDir, "cipherboard"),
	}
}

// ConfigFile is the path of the client configuration.
func (s *Settings) ConfigFile() string {
	return filepath.Join(s.ConfigPath, "config.toml")
}

// SessionFile is the path of the current login's session slots.
func (s *Settings) SessionFile() string {
	return filepath.Join(s.ConfigPath, "session.toml")
}
