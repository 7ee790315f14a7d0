package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Authority AuthorityConfig `mapstructure:"authority"`
	Pacing    PacingConfig    `mapstructure:"pacing"`
	UI        UIConfig        `mapstructure:"ui"`
	History   HistoryConfig   `mapstructure:"history"`
	Log       LogConfig       `mapstructure:"log"`
}

// AuthorityConfig locates the game server.
type AuthorityConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Watchdog time.Duration `mapstructure:"watchdog"`
}

// PacingConfig holds the pauses before the opponent moves.
type PacingConfig struct {
	AfterPlay     time.Duration `mapstructure:"after_play"`
	AfterPass     time.Duration `mapstructure:"after_pass"`
	AfterExchange time.Duration `mapstructure:"after_exchange"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	AnnouncementTTL time.Duration `mapstructure:"announcement_ttl"`
	MessageTTL      time.Duration `mapstructure:"message_ttl"`
	PassThreshold   int           `mapstructure:"pass_threshold"`
	AlwaysAllowPass bool          `mapstructure:"always_allow_pass"`
	KeysFile        string        `mapstructure:"keys_file"`
}

// HistoryConfig holds the local game journal settings.
type HistoryConfig struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

func dataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "wordrack")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "wordrack")
}

func stateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "wordrack")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "wordrack")
}

// Path returns the config file location: WORDRACK_CONFIG, or
// ~/.config/wordrack/config.toml.
func Path() string {
	if p := os.Getenv("WORDRACK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "wordrack", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix WORDRACK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("authority.base_url", "http://127.0.0.1:5000")
	v.SetDefault("authority.timeout", 10*time.Second)
	v.SetDefault("authority.watchdog", 15*time.Second)
	v.SetDefault("pacing.after_play", 1500*time.Millisecond)
	v.SetDefault("pacing.after_pass", time.Second)
	v.SetDefault("pacing.after_exchange", time.Second)
	v.SetDefault("ui.announcement_ttl", 2500*time.Millisecond)
	v.SetDefault("ui.message_ttl", 2*time.Second)
	v.SetDefault("ui.pass_threshold", 10)
	v.SetDefault("ui.always_allow_pass", false)
	v.SetDefault("ui.keys_file", filepath.Join(filepath.Dir(Path()), "keys.toml"))
	v.SetDefault("history.path", filepath.Join(dataDir(), "history.db"))
	v.SetDefault("history.enabled", true)
	v.SetDefault("log.path", filepath.Join(stateDir(), "wordrack.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("WORDRACK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "wordrack"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WORDRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine; a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects values the client cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Authority.BaseURL) == "" {
		return fmt.Errorf("config: authority.base_url is empty")
	}
	if c.Authority.Timeout < 0 || c.Authority.Watchdog < 0 {
		return fmt.Errorf("config: negative authority timeout")
	}
	if c.UI.PassThreshold <= 0 {
		return fmt.Errorf("config: ui.pass_threshold must be positive")
	}
	return nil
}

// Save writes the provided config to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("authority.base_url", cfg.Authority.BaseURL)
	v.Set("authority.timeout", cfg.Authority.Timeout.String())
	v.Set("authority.watchdog", cfg.Authority.Watchdog.String())
	v.Set("pacing.after_play", cfg.Pacing.AfterPlay.String())
	v.Set("pacing.after_pass", cfg.Pacing.AfterPass.String())
	v.Set("pacing.after_exchange", cfg.Pacing.AfterExchange.String())
	v.Set("ui.announcement_ttl", cfg.UI.AnnouncementTTL.String())
	v.Set("ui.message_ttl", cfg.UI.MessageTTL.String())
	v.Set("ui.pass_threshold", cfg.UI.PassThreshold)
	v.Set("ui.always_allow_pass", cfg.UI.AlwaysAllowPass)
	v.Set("ui.keys_file", cfg.UI.KeysFile)
	v.Set("history.path", cfg.History.Path)
	v.Set("history.enabled", cfg.History.Enabled)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
