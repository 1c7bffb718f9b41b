package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/solvesync/internal/models"
)

var (
	logsClear bool
	logsLimit int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the activity log",
	Long:  `Show the most recent activity log entries, oldest first.`,
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolVar(&logsClear, "clear", false, "Empty the activity log")
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Number of entries to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
	a, err := openApp("logs")
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if logsClear {
		if res := a.svc.ClearLogs(); !res.Success {
			return trackCLIError("logs", errors.New(res.Error))
		}
		_, _ = fmt.Fprintf(out, "%s Activity log cleared\n", okStyle.Render("✓"))
		return nil
	}

	entries, err := a.db.ListLogs(logsLimit)
	if err != nil {
		return trackCLIError("logs", err)
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, mutedStyle.Render("No activity yet."))
		return nil
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		_, _ = fmt.Fprintf(out, "%s %s %s\n",
			mutedStyle.Render(e.At.Local().Format("2006-01-02 15:04:05")),
			levelStyle(e.Level).Render(fmt.Sprintf("%-5s", e.Level)),
			e.Message)
	}
	return nil
}

func levelStyle(level models.LogLevel) lipgloss.Style {
	switch level {
	case models.LogError:
		return errStyle
	case models.LogWarn:
		return warnStyle
	case models.LogInfo:
		return okStyle
	default:
		return mutedStyle
	}
}
