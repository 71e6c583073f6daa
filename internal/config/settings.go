package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const appName = "budgetcast"

// Settings holds the user's budgetcast preferences.
type Settings struct {
	General GeneralSettings `toml:"general"`
	Cache   CacheSettings   `toml:"cache"`
	Log     LogSettings     `toml:"log"`
}

// GeneralSettings holds forecast defaults.
type GeneralSettings struct {
	DefaultDays   int    `toml:"default_days"`
	DefaultFormat string `toml:"default_format"`
	DefaultInput  string `toml:"default_input,omitempty"`
}

// CacheSettings controls the on-disk forecast cache.
type CacheSettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path,omitempty"`
}

// LogSettings controls the zap logger.
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			DefaultDays:   90,
			DefaultFormat: "console",
		},
		Cache: CacheSettings{
			Enabled: true,
		},
		Log: LogSettings{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the settings file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CachePath returns the SQLite cache location, honouring the [cache] path override.
func (s Settings) CachePath() string {
	if s.Cache.Path != "" {
		return s.Cache.Path
	}
	return filepath.Join(ConfigDir(), "cache.db")
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
func LoadSettings() (Settings, error) {
	return LoadSettingsFrom(ConfigPath())
}

// LoadSettingsFrom reads settings from path. Keys missing from the file keep their defaults.
func LoadSettingsFrom(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.withEnv(), nil
		}
		return s, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing settings: %w", err)
	}
	if s.General.DefaultDays <= 0 {
		return s, fmt.Errorf("parsing settings: general.default_days must be positive")
	}
	return s.withEnv(), nil
}

// withEnv applies BUDGETCAST_LOG_LEVEL over the file value.
func (s Settings) withEnv() Settings {
	if level := os.Getenv("BUDGETCAST_LOG_LEVEL"); level != "" {
		s.Log.Level = level
	}
	return s
}

// SaveSettings writes settings to the default location.
func SaveSettings(s Settings) error {
	return SaveSettingsTo(s, ConfigPath())
}

// SaveSettingsTo writes settings to path, creating its directory.
func SaveSettingsTo(s Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(s)
}

// SettingsExist returns true if a settings file exists on disk.
func SettingsExist() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
