// Package config loads and persists queuectl's runtime settings, backed
// by a JSON file under the user's config directory and read through
// github.com/spf13/viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds queuectl's runtime settings, matching spec.md §6's
// configuration surface plus the supplemented worker_heartbeat_timeout
// key.
type Config struct {
	MaxRetries             uint32  `mapstructure:"max_retries"`
	BackoffBase            float64 `mapstructure:"backoff_base"`
	DBPath                 string  `mapstructure:"db_path"`
	WorkerPollInterval     float64 `mapstructure:"worker_poll_interval"`
	JobTimeout             int     `mapstructure:"job_timeout"`
	WorkerHeartbeatTimeout int     `mapstructure:"worker_heartbeat_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_retries", 3)
	v.SetDefault("backoff_base", 2.0)
	v.SetDefault("db_path", "queuectl.db")
	v.SetDefault("worker_poll_interval", 1.0)
	v.SetDefault("job_timeout", 300)
	v.SetDefault("worker_heartbeat_timeout", 60)
}

// Path returns the location of the config file: os.UserConfigDir()/queuectl/config.json.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "queuectl", "config.json"), nil
}

// Load reads the config file at Path, filling in defaults for any
// missing key. A missing file is not an error; Load returns the
// defaults in that case.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes cfg to Path as JSON, creating the parent directory if
// needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.Set("max_retries", cfg.MaxRetries)
	v.Set("backoff_base", cfg.BackoffBase)
	v.Set("db_path", cfg.DBPath)
	v.Set("worker_poll_interval", cfg.WorkerPollInterval)
	v.Set("job_timeout", cfg.JobTimeout)
	v.Set("worker_heartbeat_timeout", cfg.WorkerHeartbeatTimeout)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Get returns the string representation of a single setting by key, for
// the `config get` CLI command.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "max_retries":
		return fmt.Sprintf("%d", c.MaxRetries), nil
	case "backoff_base":
		return fmt.Sprintf("%g", c.BackoffBase), nil
	case "db_path":
		return c.DBPath, nil
	case "worker_poll_interval":
		return fmt.Sprintf("%g", c.WorkerPollInterval), nil
	case "job_timeout":
		return fmt.Sprintf("%d", c.JobTimeout), nil
	case "worker_heartbeat_timeout":
		return fmt.Sprintf("%d", c.WorkerHeartbeatTimeout), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set parses value and assigns it to the named setting, for the
// `config set` CLI command. It does not persist the change; call Save
// afterward.
func (c *Config) Set(key, value string) error {
	switch key {
	case "max_retries":
		var n uint32
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid max_retries %q: %w", value, err)
		}
		c.MaxRetries = n
	case "backoff_base":
		var f float64
		if _, err := fmt.Sscanf(value, "%g", &f); err != nil {
			return fmt.Errorf("invalid backoff_base %q: %w", value, err)
		}
		c.BackoffBase = f
	case "db_path":
		c.DBPath = value
	case "worker_poll_interval":
		var f float64
		if _, err := fmt.Sscanf(value, "%g", &f); err != nil {
			return fmt.Errorf("invalid worker_poll_interval %q: %w", value, err)
		}
		c.WorkerPollInterval = f
	case "job_timeout":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid job_timeout %q: %w", value, err)
		}
		c.JobTimeout = n
	case "worker_heartbeat_timeout":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
			return fmt.Errorf("invalid worker_heartbeat_timeout %q: %w", value, err)
		}
		c.WorkerHeartbeatTimeout = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// PollInterval returns WorkerPollInterval as a time.Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.WorkerPollInterval * float64(time.Second))
}

// JobTimeoutDuration returns JobTimeout as a time.Duration.
func (c *Config) JobTimeoutDuration() time.Duration {
	return time.Duration(c.JobTimeout) * time.Second
}

// HeartbeatTimeoutDuration returns WorkerHeartbeatTimeout as a time.Duration.
func (c *Config) HeartbeatTimeoutDuration() time.Duration {
	return time.Duration(c.WorkerHeartbeatTimeout) * time.Second
}
