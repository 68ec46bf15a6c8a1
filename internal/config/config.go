package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Config is the persisted presence configuration.
type Config struct {
	DiscordAppID    string `json:"discordAppId"`
	GoodreadsUserID string `json:"goodreadsUserId"`
	RefreshInterval int    `json:"refreshInterval"`
	KeepRunning     *bool  `json:"keepRunning,omitempty"`
	MinimizeToTray  bool   `json:"minimizeToTray"`
	RunOnStartup    bool   `json:"runOnStartup"`
	LastBookID      string `json:"lastBookId"`
}

const (
	defaultConfigPath = "~/.config/shelfcord/config.json"

	DefaultDiscordAppID   = "1356666997760462859"
	PlaceholderUserID     = "YOUR_GOODREADS_USER_ID"
	DefaultRefreshSeconds = 60
	MinRefreshSeconds     = 15
)

var (
	// ErrPlaceholderUser is returned by Validate while the user id is unset.
	ErrPlaceholderUser = errors.New("goodreads user id is not configured")
	// ErrInvalidAppID is returned by Validate for a non-numeric Discord app id.
	ErrInvalidAppID = errors.New("discord app id must be numeric")
)

// Default returns the configuration written on first run.
func Default() Config {
	keep := true
	return Config{
		DiscordAppID:    DefaultDiscordAppID,
		GoodreadsUserID: PlaceholderUserID,
		RefreshInterval: DefaultRefreshSeconds,
		KeepRunning:     &keep,
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path. A missing file is created with defaults.
func Load(path string) (Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return Config{}, err
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			if err := Save(resolved, cfg); err != nil {
				return Config{}, fmt.Errorf("write default config: %w", err)
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json5.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return normalize(cfg)
}

// Save writes cfg as indented JSON, replacing the file atomically.
func Save(path string, cfg Config) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	normalized, err := normalize(cfg)
	if err != nil {
		return err
	}
	bytes, err := json.MarshalIndent(normalized, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := resolved + ".tmp"
	if err := os.WriteFile(tmp, append(bytes, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Validate reports whether the config is usable for polling.
func (c Config) Validate() error {
	id := strings.TrimSpace(c.DiscordAppID)
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAppID, c.DiscordAppID)
	}
	user := strings.TrimSpace(c.GoodreadsUserID)
	if user == "" || user == PlaceholderUserID {
		return ErrPlaceholderUser
	}
	return nil
}

// Interval returns the refresh interval as a duration.
func (c Config) Interval() time.Duration {
	seconds := c.RefreshInterval
	if seconds <= 0 {
		seconds = DefaultRefreshSeconds
	}
	if seconds < MinRefreshSeconds {
		seconds = MinRefreshSeconds
	}
	return time.Duration(seconds) * time.Second
}

// ShelfUserID returns the Goodreads user id, or "" while it is unset.
func (c Config) ShelfUserID() string {
	user := strings.TrimSpace(c.GoodreadsUserID)
	if user == PlaceholderUserID {
		return ""
	}
	return user
}

// KeepAlive reports whether polling continues after the UI closes.
func (c Config) KeepAlive() bool {
	return c.KeepRunning == nil || *c.KeepRunning
}

// SetKeepAlive sets the keepRunning flag.
func (c *Config) SetKeepAlive(v bool) {
	c.KeepRunning = &v
}

func normalize(cfg Config) (Config, error) {
	cfg.DiscordAppID = strings.TrimSpace(cfg.DiscordAppID)
	cfg.GoodreadsUserID = strings.TrimSpace(cfg.GoodreadsUserID)
	cfg.LastBookID = strings.TrimSpace(cfg.LastBookID)

	// keepRunning is a pointer so an explicit false is not a zero value.
	if err := mergo.Merge(&cfg, Default(), mergo.WithoutDereference); err != nil {
		return Config{}, fmt.Errorf("apply defaults: %w", err)
	}
	if cfg.RefreshInterval < MinRefreshSeconds {
		cfg.RefreshInterval = MinRefreshSeconds
	}
	return cfg, nil
}

// ResolvePath expands path, or the default location when empty.
func ResolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

// ExpandPath expands a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
