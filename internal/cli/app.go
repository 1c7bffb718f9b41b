package cli

import (
	"fmt"

	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/service"
)

// serviceOptions is passed to every service the CLI opens. Tests replace
// the store factory here.
var serviceOptions service.Options

// app bundles what a command needs: configuration, the database and the
// service over them.
type app struct {
	cfg *config.Config
	db  *db.DB
	svc *service.Service
}

// openApp loads configuration and opens the database. Callers must Close.
func openApp(cmdName string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, trackCLIError(cmdName, fmt.Errorf("load config: %w", err))
	}

	paths := config.GetPaths(cfg)
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		return nil, trackCLIError(cmdName, fmt.Errorf("initialize database: %w", err))
	}

	opts := serviceOptions
	if opts.Telemetry == nil {
		opts.Telemetry = telemetryClient
	}
	return &app{cfg: cfg, db: database, svc: service.New(cfg, database, opts)}, nil
}

// Close waits for background passes, then closes the database.
func (a *app) Close() {
	a.svc.Close()
	_ = a.db.Close()
}
