package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, BackendGitHub, cfg.Remote.Backend)
	assert.Equal(t, 20*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Policy.FreshnessWindow)
	assert.Equal(t, 5, cfg.Policy.MaxRetries)
	assert.Equal(t, time.Second, cfg.Policy.BaseDelay)
	assert.Equal(t, time.Minute, cfg.Policy.MaxDelay)
	assert.Equal(t, time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, "progress.json", cfg.Progress.SnapshotFile)
	assert.Equal(t, "README.md", cfg.Progress.DigestFile)
	assert.NoError(t, cfg.Validate())
}

func TestParse_OverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte(`
remote:
  backend: git
  timeout: 5s
  git:
    push: true
policy:
  max_retries: 3
`))
	require.NoError(t, err)

	assert.Equal(t, BackendGit, cfg.Remote.Backend)
	assert.Equal(t, 5*time.Second, cfg.Remote.Timeout)
	assert.True(t, cfg.Remote.Git.Push)
	assert.Equal(t, "origin", cfg.Remote.Git.RemoteName)
	assert.Equal(t, 3, cfg.Policy.MaxRetries)
	assert.Equal(t, time.Second, cfg.Policy.BaseDelay)
}

func TestParse_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "remote:\n  backend: s3\n"},
		{"zero retries", "policy:\n  max_retries: 0\n"},
		{"inverted delays", "policy:\n  base_delay: 2m\n  max_delay: 1m\n"},
		{"bad yaml", "remote: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("scheduler:\n  interval: 30s\n"), 0644))

	t.Setenv("SOLVESYNC_HOME", home)
	t.Setenv("SOLVESYNC_TOKEN", "ghp_env")
	t.Setenv("SOLVESYNC_BACKEND", "git")
	t.Setenv("SOLVESYNC_INBOX", "")
	t.Setenv("SOLVESYNC_MAX_RETRIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, home, cfg.BaseDir)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.Interval)
	assert.Equal(t, "ghp_env", cfg.Remote.Token)
	assert.Equal(t, BackendGit, cfg.Remote.Backend)
	assert.DirExists(t, filepath.Join(home, "logs"))
	assert.DirExists(t, filepath.Join(home, "inbox"))
	assert.Equal(t, filepath.Join(home, "solvesync.db"), GetPaths(cfg).Database)
}

func TestSave_RoundTripsThroughLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SOLVESYNC_HOME", home)
	t.Setenv("SOLVESYNC_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("SOLVESYNC_BACKEND", "")
	t.Setenv("SOLVESYNC_INBOX", "")
	t.Setenv("SOLVESYNC_MAX_RETRIES", "")

	cfg := DefaultConfig()
	cfg.BaseDir = home
	cfg.Progress.RecentLimit = 5
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Progress.RecentLimit)
	assert.Empty(t, loaded.Remote.Token)
}

func TestParse_RequiresConstraint(t *testing.T) {
	_, err := Parse([]byte("requires: \"not a constraint\"\n"))
	assert.Error(t, err)

	cfg, err := Parse([]byte("requires: \">= 0.1\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ">= 0.1", cfg.Requires)
}
