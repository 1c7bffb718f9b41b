// Package config handles application configuration management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/asteroid-belt/solvesync/pkg/version"
)

// Backend names accepted in remote.backend.
const (
	BackendGitHub = "github"
	BackendGit    = "git"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all solvesync data (~/.solvesync)
	BaseDir string `yaml:"-"`

	// Requires is a semver constraint the running build must satisfy.
	Requires string `yaml:"requires,omitempty"`

	Remote    RemoteConfig    `yaml:"remote"`
	Policy    PolicyConfig    `yaml:"policy"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Inbox     InboxConfig     `yaml:"inbox"`
	Progress  ProgressConfig  `yaml:"progress"`
}

// RemoteConfig selects and tunes the remote file store.
type RemoteConfig struct {
	Backend   string        `yaml:"backend"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit int           `yaml:"rate_limit"` // requests per minute
	BaseURL   string        `yaml:"base_url"`   // GitHub Enterprise API root

	// Token from SOLVESYNC_TOKEN; a credential saved through the CLI wins.
	Token string `yaml:"-"`

	Git GitConfig `yaml:"git"`
}

// GitConfig configures the local repository backend.
type GitConfig struct {
	Push        bool   `yaml:"push"`
	RemoteName  string `yaml:"remote_name"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// PolicyConfig holds the dedup and retry tunables.
type PolicyConfig struct {
	FreshnessWindow time.Duration `yaml:"freshness_window"`
	MaxRetries      int           `yaml:"max_retries"`
	BaseDelay       time.Duration `yaml:"base_delay"`
	MaxDelay        time.Duration `yaml:"max_delay"`
}

// SchedulerConfig holds the periodic trigger interval.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// InboxConfig locates the directory scraped events are dropped into.
type InboxConfig struct {
	Dir string `yaml:"dir"`
}

// ProgressConfig names the summary documents and shapes the digest.
type ProgressConfig struct {
	SnapshotFile string `yaml:"snapshot_file"`
	DigestFile   string `yaml:"digest_file"`
	RecentLimit  int    `yaml:"recent_limit"`
	ProblemURL   string `yaml:"problem_url"` // fmt pattern taking the slug
}

// Load builds the configuration from defaults, the optional config file
// and environment variables, in that order.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if home := os.Getenv("SOLVESYNC_HOME"); home != "" {
		cfg.BaseDir = home
	}

	data, err := os.ReadFile(GetPaths(cfg).Config)
	switch {
	case err == nil:
		if err := cfg.merge(data); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes a config.yaml document over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.merge(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) merge(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if token := os.Getenv("SOLVESYNC_TOKEN"); token != "" {
		cfg.Remote.Token = token
	} else if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Remote.Token = token
	}
	if backend := os.Getenv("SOLVESYNC_BACKEND"); backend != "" {
		cfg.Remote.Backend = backend
	}
	if dir := os.Getenv("SOLVESYNC_INBOX"); dir != "" {
		cfg.Inbox.Dir = dir
	}
	if n, err := strconv.Atoi(os.Getenv("SOLVESYNC_MAX_RETRIES")); err == nil && n > 0 {
		cfg.Policy.MaxRetries = n
	}
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	ok, err := version.Satisfies(c.Requires)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("config requires solvesync %s, running %s", c.Requires, version.Short())
	}
	switch c.Remote.Backend {
	case BackendGitHub, BackendGit:
	default:
		return fmt.Errorf("unknown remote backend %q (want %s or %s)", c.Remote.Backend, BackendGitHub, BackendGit)
	}
	if c.Policy.MaxRetries <= 0 {
		return fmt.Errorf("policy.max_retries must be positive")
	}
	if c.Policy.BaseDelay <= 0 || c.Policy.MaxDelay < c.Policy.BaseDelay {
		return fmt.Errorf("policy delays must satisfy 0 < base_delay <= max_delay")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive")
	}
	return nil
}

// InboxDir returns the configured inbox or the default under BaseDir.
func (c *Config) InboxDir() string {
	if c.Inbox.Dir != "" {
		return c.Inbox.Dir
	}
	return GetPaths(c).Inbox
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	paths := GetPaths(cfg)
	dirs := []string{
		cfg.BaseDir,
		paths.Logs,
		cfg.InboxDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the configuration as config.yaml under BaseDir.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	path := GetPaths(c).Config
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
