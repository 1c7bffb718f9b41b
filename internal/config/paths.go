package config

import (
	"os"
	"path/filepath"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Main SQLite database
	Config   string // Config file
	Logs     string // Log directory
	Inbox    string // Default inbox directory
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "solvesync.db"),
		Config:   filepath.Join(cfg.BaseDir, "config.yaml"),
		Logs:     filepath.Join(cfg.BaseDir, "logs"),
		Inbox:    filepath.Join(cfg.BaseDir, "inbox"),
	}
}

// DefaultBaseDir returns the default base directory (~/.solvesync).
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".solvesync"
	}
	return filepath.Join(home, ".solvesync")
}
