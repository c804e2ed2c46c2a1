package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ICSConfig describes the ICS subscription source whose free time is queried.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for caching and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration. Fields double as the
// defaults for query parameters the caller leaves unset.
type Config struct {
	// Listen is the HTTP listen address for the API server.
	Listen string `yaml:"listen" json:"listen"`

	// TimezoneLabel is appended to formatted results (e.g. "ET"). It is
	// display-only and never used in computation; event times are compared
	// with their offsets stripped.
	TimezoneLabel string `yaml:"timezone_label" json:"timezone_label"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used to re-fetch the calendar in serve mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// WorkStartHour / WorkEndHour bound the daily working window as integer
	// hours of day, start < end.
	WorkStartHour int `yaml:"work_start_hour" json:"work_start_hour"`
	WorkEndHour   int `yaml:"work_end_hour" json:"work_end_hour"`

	// BufferBeforeMin / BufferAfterMin are non-negative minutes of padding
	// subtracted from free time around every event.
	BufferBeforeMin int `yaml:"buffer_before_min" json:"buffer_before_min"`
	BufferAfterMin  int `yaml:"buffer_after_min" json:"buffer_after_min"`

	// CacheDir is the base directory for the ICS HTTP cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// ICS is the subscribed calendar source.
	ICS ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          "127.0.0.1:8080",
		TimezoneLabel:   "ET",
		RefreshCron:     "*/15 * * * *",
		WorkStartHour:   9,
		WorkEndHour:     17,
		BufferBeforeMin: 0,
		BufferAfterMin:  0,
		CacheDir:        "",
		ICS:             ICSConfig{},
		BasicAuth:       nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly. It does not perform the
// caller-level query validation; invalid working hours loaded from a file
// are reset to the defaults rather than rejected.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.TimezoneLabel == "" {
		c.TimezoneLabel = "ET"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/15 * * * *"
	}
	if c.WorkStartHour < 0 || c.WorkStartHour > 23 {
		c.WorkStartHour = 9
	}
	if c.WorkEndHour <= 0 || c.WorkEndHour > 24 {
		c.WorkEndHour = 17
	}
	if c.WorkStartHour >= c.WorkEndHour {
		c.WorkStartHour = 9
		c.WorkEndHour = 17
	}
	if c.BufferBeforeMin < 0 {
		c.BufferBeforeMin = 0
	}
	if c.BufferAfterMin < 0 {
		c.BufferAfterMin = 0
	}
	if c.ICS.ID == "" {
		if c.ICS.Name != "" {
			c.ICS.ID = c.ICS.Name
		} else {
			c.ICS.ID = c.ICS.URL
		}
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: create parent directory if needed, write a
//     default config with 0600 perms, and return the default config.
//   - If the file exists: read YAML, unmarshal, normalize defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path, atomically via
// a temp file + rename, with final permissions 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".freeslot-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
