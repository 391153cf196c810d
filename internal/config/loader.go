package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Load discovers a config file, merges it with defaults, applies environment
// variable overrides, validates the result, and returns the final config.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom loads config using the given directory for file discovery.
// This is the testable entry point, Load() calls it with os.Getwd().
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	path := discoverConfigPath(dir)
	if path != "" {
		override, err := loadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		merge(&cfg, override)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}

	return &cfg, nil
}

// LoadFile loads the config from an explicit path, skipping discovery.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	override, err := loadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	merge(&cfg, override)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}

	return &cfg, nil
}

// discoverConfigPath returns the first config file in the discovery chain
// that exists, or empty string for defaults-only mode.
func discoverConfigPath(dir string) string {
	local := filepath.Join(dir, "ragtail.yaml")
	if _, err := os.Stat(local); err == nil {
		return local
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	user := filepath.Join(home, ".config", "ragtail", "config.yaml")
	if _, err := os.Stat(user); err == nil {
		return user
	}

	return ""
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return &cfg, nil
}

// merge applies override onto base. Scalar fields override when non-zero.
func merge(base *Config, override *Config) {
	if override.Server != "" {
		base.Server = override.Server
	}
	if override.WorkflowID != "" {
		base.WorkflowID = override.WorkflowID
	}
	if override.Poll.IntervalSeconds != 0 {
		base.Poll.IntervalSeconds = override.Poll.IntervalSeconds
	}
	if override.Poll.GraceSeconds != 0 {
		base.Poll.GraceSeconds = override.Poll.GraceSeconds
	}
	if override.Poll.MaxAttempts != 0 {
		base.Poll.MaxAttempts = override.Poll.MaxAttempts
	}
	if override.Cache.Dir != "" {
		base.Cache.Dir = override.Cache.Dir
	}
	if override.Cache.MaxSize != 0 {
		base.Cache.MaxSize = override.Cache.MaxSize
	}
	if override.Cache.TTLHours != 0 {
		base.Cache.TTLHours = override.Cache.TTLHours
	}
	if override.Debug {
		base.Debug = true
	}
}

// applyEnvOverrides applies RAGTAIL_* environment variables on top of the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RAGTAIL_SERVER"); v != "" {
		cfg.Server = v
	}
	if v := os.Getenv("RAGTAIL_WORKFLOW"); v != "" {
		cfg.WorkflowID = v
	}
	if v := os.Getenv("RAGTAIL_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Poll.IntervalSeconds = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: RAGTAIL_POLL_INTERVAL=%q is not a valid integer, ignoring\n", v)
		}
	}
	if v := os.Getenv("RAGTAIL_POLL_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Poll.MaxAttempts = n
		} else {
			fmt.Fprintf(os.Stderr, "warning: RAGTAIL_POLL_ATTEMPTS=%q is not a valid integer, ignoring\n", v)
		}
	}
	if v := os.Getenv("RAGTAIL_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("RAGTAIL_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "ragtail")
	}
	return filepath.Join(base, "ragtail")
}
