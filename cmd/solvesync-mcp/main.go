// Package main provides the solvesync-mcp server.
//
// solvesync-mcp exposes the sync pipeline via the Model Context Protocol so
// an assistant can queue solutions, inspect the queue and trigger syncs.
//
// Usage:
//
//	solvesync-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/solvesync/internal/config"
	"github.com/asteroid-belt/solvesync/internal/db"
	"github.com/asteroid-belt/solvesync/internal/log"
	"github.com/asteroid-belt/solvesync/internal/mcp"
	"github.com/asteroid-belt/solvesync/internal/service"
	"github.com/asteroid-belt/solvesync/internal/telemetry"
	"github.com/asteroid-belt/solvesync/pkg/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

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
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to the file only.
	paths := config.GetPaths(cfg)
	if err := log.InitFileOnly(paths.Logs); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	tc := telemetry.New(database)
	defer tc.Close()
	tc.TrackAppStarted("mcp", cfg.Remote.Backend)

	svc := service.New(cfg, database, service.Options{Telemetry: tc})
	defer svc.Close()

	server := mcp.NewServer(svc, tc)
	if err := server.Serve(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `solvesync-mcp - MCP server for solvesync

USAGE:
    solvesync-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    solvesync-mcp is a Model Context Protocol (MCP) server that exposes the
    solvesync queue, settings and progress documents to MCP-compatible
    clients. It shares the database in ~/.solvesync (or $SOLVESYNC_HOME)
    with the solvesync CLI.

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).

CONFIGURATION:
    {
      "mcpServers": {
        "solvesync": {
          "type": "stdio",
          "command": "solvesync-mcp"
        }
      }
    }

TOOLS PROVIDED:
    solvesync_get_state        Settings, queue, counts and recent activity
    solvesync_save_settings    Update sync settings
    solvesync_save_token       Save the access token
    solvesync_clear_token      Remove the access token
    solvesync_submit           Queue an accepted solution
    solvesync_force_sync       Run a sync pass now
    solvesync_force_progress   Regenerate and commit progress documents
    solvesync_clear_logs       Empty the activity log
    solvesync_merge_catalog    Merge catalog classifications
    solvesync_reset_mapping    Delete the catalog mapping

RESOURCES PROVIDED:
    solvesync://state              Sync state as JSON
    solvesync://progress/digest    Markdown digest preview
    solvesync://progress/snapshot  JSON snapshot preview
`
	fmt.Print(help)
}
