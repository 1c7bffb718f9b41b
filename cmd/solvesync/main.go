// solvesync syncs accepted coding-challenge solutions to a git repository.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/solvesync/internal/cli"
	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err != nil {
		log.Errorf("init logging: %v", err)
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	// Open the database once up front for the persistent tracking ID.
	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		log.Errorf("open database: %v", err)
		os.Exit(1)
	}
	telemetryClient := telemetry.New(database)
	_ = database.Close()
	defer telemetryClient.Close()

	if err := cli.Execute(ctx, telemetryClient); err != nil {
		os.Exit(1)
	}
}
