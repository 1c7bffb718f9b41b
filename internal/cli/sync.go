package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Process the queue now",
	Long: `Process every eligible queued submission now and wait for the pass.

Items still inside their retry backoff are left for a later pass.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := openApp("sync")
	if err != nil {
		return err
	}
	defer a.Close()

	pass, res := a.svc.ForceSync(cmd.Context())
	if !res.Success {
		return trackCLIError("sync", errors.New(res.Error))
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s Sync complete\n", okStyle.Render("✓"))
	_, _ = fmt.Fprintln(out, field("Committed", fmt.Sprintf("%d", pass.Processed)))
	if pass.Retried > 0 {
		_, _ = fmt.Fprintln(out, field("Retrying", warnStyle.Render(fmt.Sprintf("%d", pass.Retried))))
	}
	if pass.Dropped > 0 {
		_, _ = fmt.Fprintln(out, field("Dropped", errStyle.Render(fmt.Sprintf("%d", pass.Dropped))))
	}
	if pass.Deferred > 0 {
		_, _ = fmt.Fprintln(out, field("Waiting", fmt.Sprintf("%d", pass.Deferred)))
	}
	if pass.ProgressError != "" {
		_, _ = fmt.Fprintln(out, field("Progress", errStyle.Render(pass.ProgressError)))
	} else if pass.Published {
		_, _ = fmt.Fprintln(out, field("Progress", "updated"))
	}
	return nil
}
