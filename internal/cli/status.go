package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/solvesync/internal/progress"
	"github.com/asteroid-belt/solvesync/internal/service"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, queue and progress",
	Long: `Show the sync configuration, the pending queue with retry state, and
solved counts by difficulty. The token is never shown.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the state as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp("status")
	if err != nil {
		return err
	}
	defer a.Close()

	state, err := a.svc.State(cmd.Context())
	if err != nil {
		return trackCLIError("status", err)
	}

	out := cmd.OutOrStdout()
	if statusJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}

	snap, _, err := a.svc.Preview()
	if err != nil {
		return trackCLIError("status", err)
	}
	printStatus(out, state, snap.Stats(), time.Now())
	return nil
}

func printStatus(w io.Writer, state service.State, stats progress.Stats, now time.Time) {
	s := state.Settings

	repo := s.Repository
	if repo == "" {
		repo = warnStyle.Render("not set")
	}
	token := okStyle.Render("saved")
	if !state.HasToken {
		token = warnStyle.Render("missing")
	}

	_, _ = fmt.Fprintln(w, titleStyle.Render("SOLVESYNC"))
	_, _ = fmt.Fprintln(w, field("Repository", repo))
	_, _ = fmt.Fprintln(w, field("Backend", state.Backend))
	_, _ = fmt.Fprintln(w, field("Branch", s.Branch))
	_, _ = fmt.Fprintln(w, field("Layout", string(s.OrganizationMode)))
	_, _ = fmt.Fprintln(w, field("Token", token))
	_, _ = fmt.Fprintln(w, field("Last sync", formatTimeSince(state.LastSync, now)))
	_, _ = fmt.Fprintln(w, field("Last progress", formatTimeSince(state.LastProgress, now)))
	if state.Busy {
		_, _ = fmt.Fprintln(w, field("Pass", warnStyle.Render("running")))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("SOLVED (%d)", state.Solved)))
	total := stats.Total()
	if total == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("  nothing yet"))
	}
	for _, row := range []struct {
		label string
		count int
		color lipgloss.Color
	}{
		{"Easy", stats.Easy, lipgloss.Color("#10B981")},
		{"Medium", stats.Medium, lipgloss.Color("#F59E0B")},
		{"Hard", stats.Hard, lipgloss.Color("#EF4444")},
		{"Unknown", stats.Unknown, lipgloss.Color("#6B6B6B")},
	} {
		if row.count == 0 || total == 0 {
			continue
		}
		bar := NewProgressBar(total, 20).WithColor(row.color)
		bar.Update(row.count, row.label)
		_, _ = fmt.Fprintln(w, "  "+bar.Render())
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("QUEUE (%d)", state.Queued)))
	if len(state.Queue) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("  empty"))
		return
	}
	for _, q := range state.Queue {
		line := fmt.Sprintf("  %-40s %-12s", q.Slug, q.Language)
		switch {
		case q.Retries == 0:
			line += mutedStyle.Render("pending")
		case q.NextAttempt != nil && q.NextAttempt.After(now):
			line += warnStyle.Render(fmt.Sprintf("retry %d in %s", q.Retries, q.NextAttempt.Sub(now).Round(time.Second)))
		default:
			line += warnStyle.Render(fmt.Sprintf("retry %d due", q.Retries))
		}
		_, _ = fmt.Fprintln(w, line)
		if q.LastError != "" {
			_, _ = fmt.Fprintln(w, "    "+errStyle.Render(truncate(q.LastError, 72)))
		}
	}
}

// formatTimeSince formats a duration since a time in a human-readable way.
func formatTimeSince(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	diff := now.Sub(*t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
