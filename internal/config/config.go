package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the on-disk configuration for tgd, stored as JSON in the
// config directory. The daemon reads it at startup; the login flow and
// explicit reconfiguration write it.
type Config struct {
	User   UserConfig   `json:"user"`
	Bot    BotConfig    `json:"bot"`
	Daemon DaemonConfig `json:"daemon"`
}

// UserConfig holds the MTProto account credentials. Read-only to the
// daemon; only explicit reconfiguration changes them.
type UserConfig struct {
	APIID   string `json:"api_id"`
	APIHash string `json:"api_hash"`
	Phone   string `json:"phone"`
}

// IsConfigured reports whether all user credentials are present.
func (u UserConfig) IsConfigured() bool {
	return u.APIID != "" && u.APIHash != "" && u.Phone != ""
}

// BotConfig holds Bot API credentials for the direct (daemon-less) client.
type BotConfig struct {
	Token  string `json:"token"`
	ChatID string `json:"chat_id"`
}

// IsConfigured reports whether the bot token is present.
func (b BotConfig) IsConfigured() bool {
	return b.Token != ""
}

// DaemonConfig holds the control-channel bind address.
type DaemonConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// URL returns the control-channel base URL.
func (d DaemonConfig) URL() string {
	return fmt.Sprintf("http://%s:%d", d.Host, d.Port)
}

const (
	defaultHost = "127.0.0.1"
	defaultPort = 19876

	// EnvConfigDir overrides the default ~/.tgd config directory.
	EnvConfigDir = "TGD_CONFIG_DIR"
)

// Dir returns the config directory, creating it if necessary.
func Dir() (string, error) {
	dir := os.Getenv(EnvConfigDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".tgd")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the path of the JSON config file.
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// SessionPath returns the path of the MTProto session file. The file is
// opaque to tgd; only the backend client library reads or writes it, and
// only one process may hold it open.
func SessionPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.dat"), nil
}

// PIDPath returns the path of the daemon process record.
func PIDPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tgd.pid"), nil
}

// LogPath returns the path of the daemon log file.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tgd.log"), nil
}

// DownloadsDir returns the default directory for downloaded media,
// creating it if necessary.
func DownloadsDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	downloads := filepath.Join(dir, "downloads")
	if err := os.MkdirAll(downloads, 0o700); err != nil {
		return "", fmt.Errorf("create downloads directory: %w", err)
	}
	return downloads, nil
}

// Load reads the config file, returning defaults if it does not exist.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{Daemon: DaemonConfig{Host: defaultHost, Port: defaultPort}}

	data, err := os.ReadFile(path) //nolint:gosec // G304 - path from own config directory
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Daemon.Host == "" {
		cfg.Daemon.Host = defaultHost
	}
	if cfg.Daemon.Port == 0 {
		cfg.Daemon.Port = defaultPort
	}
	return cfg, nil
}

// Save writes the config file with owner-only permissions (it holds
// credentials).
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
