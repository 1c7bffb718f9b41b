package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Remote: RemoteConfig{
			Backend:   BackendGitHub,
			Timeout:   20 * time.Second,
			RateLimit: 30,
			Git: GitConfig{
				RemoteName: "origin",
			},
		},

		Policy: PolicyConfig{
			FreshnessWindow: 60 * time.Second,
			MaxRetries:      5,
			BaseDelay:       time.Second,
			MaxDelay:        60 * time.Second,
		},

		Scheduler: SchedulerConfig{
			Interval: time.Minute,
		},

		Progress: ProgressConfig{
			SnapshotFile: "progress.json",
			DigestFile:   "README.md",
			RecentLimit:  20,
			ProblemURL:   "https://leetcode.com/problems/%s/",
		},
	}
}
