package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/asteroid-belt/solvesync/internal/inbox"
	"github.com/asteroid-belt/solvesync/internal/scheduler"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Process the inbox and the queue in the background",
	Long: `Run until interrupted: watch the inbox directory for submission and
catalog events, and run a sync pass at startup and on every scheduler
interval so failed items are retried once their backoff expires.

Producers should write event files under a temporary name and rename
them to *.json when complete. Rejected files are moved to inbox/rejected.`,
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	a, err := openApp("daemon")
	if err != nil {
		return err
	}
	defer a.Close()

	journal := a.svc.Journal()
	watcher, err := inbox.NewWatcher(a.cfg.InboxDir(), a.svc, journal)
	if err != nil {
		return trackCLIError("daemon", err)
	}
	sched := scheduler.New(a.svc, a.cfg.Scheduler.Interval, journal)

	telemetryClient.TrackAppStarted("daemon", a.cfg.Remote.Backend)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Watching %s, syncing every %s\n",
		okStyle.Render("✓"), watcher.Dir(), sched.Interval())
	journal.Info("Daemon started")

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return watcher.Run(ctx) })
	g.Go(func() error { return sched.Run(ctx) })

	err = g.Wait()
	journal.Info("Daemon stopped")
	return trackCLIError("daemon", err)
}
