// Package configs manages cipherboard's client configuration.
//
// Configuration is stored in TOML at <user config dir>/cipherboard/config.toml:
//
//	data_dir        = "/home/alice/.local/share/cipherboard"
//	session_timeout = "30m"
//	metrics_file    = "/home/alice/.local/share/cipherboard/metrics.prom"
//
// A missing file means defaults. CIPHERBOARD_DATA_DIR and
// CIPHERBOARD_SESSION_TIMEOUT override the file.
//
// # Settings
//
// UserSettings is initialised at startup from the XDG directories and
// names the config and session files. The session file holds only the
// wrapped master key, the username and the server token; see
// internal/session.
//
// # TOML Helpers
//
// SaveTOML and LoadTOML are shared by every package that keeps small
// records on the local disk. SaveTOML replaces files atomically with
// mode 0600.
package configs
