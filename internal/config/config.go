package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Server     string      `yaml:"server"`
	WorkflowID string      `yaml:"workflow_id"`
	Poll       PollConfig  `yaml:"poll"`
	Cache      CacheConfig `yaml:"cache"`
	Debug      bool        `yaml:"debug"`
}

type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	GraceSeconds    int `yaml:"grace_seconds"`
	MaxAttempts     int `yaml:"max_attempts"`
}

type CacheConfig struct {
	Dir      string `yaml:"dir"`
	MaxSize  int64  `yaml:"max_size_mb"`
	TTLHours int    `yaml:"ttl_hours"`
}

func Default() Config {
	return Config{
		Server: "http://localhost:8000",
		Poll: PollConfig{
			IntervalSeconds: 2,
			GraceSeconds:    2,
			MaxAttempts:     60,
		},
		Cache: CacheConfig{
			MaxSize:  50,
			TTLHours: 24,
		},
	}
}

func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalSeconds) * time.Second
}

func (p PollConfig) Grace() time.Duration {
	return time.Duration(p.GraceSeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

func (c Config) Validate() error {
	var errs []string

	u, err := url.Parse(c.Server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("server %q must be an http(s) URL", c.Server))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("server scheme %q must be http or https", u.Scheme))
	}

	if c.Poll.IntervalSeconds <= 0 {
		errs = append(errs, "poll.interval_seconds must be positive")
	}
	if c.Poll.GraceSeconds < 0 {
		errs = append(errs, "poll.grace_seconds must not be negative")
	}
	if c.Poll.MaxAttempts <= 0 {
		errs = append(errs, "poll.max_attempts must be positive")
	}
	if c.Cache.MaxSize <= 0 {
		errs = append(errs, "cache.max_size_mb must be positive")
	}
	if c.Cache.TTLHours <= 0 {
		errs = append(errs, "cache.ttl_hours must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
