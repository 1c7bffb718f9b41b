package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/solvesync/internal/progress"
)

// ProgressBar renders a horizontal bar for a share of a total.
type ProgressBar struct {
	completed int
	total     int
	label     string
	width     int
	color     lipgloss.Color
}

// NewProgressBar creates a new progress bar with the specified total and width.
func NewProgressBar(total int, width int) *ProgressBar {
	if width <= 0 {
		width = 15
	}
	return &ProgressBar{
		total: total,
		width: width,
		color: lipgloss.Color("#10B981"),
	}
}

// WithColor sets the bar color.
func (p *ProgressBar) WithColor(c lipgloss.Color) *ProgressBar {
	p.color = c
	return p
}

// Update sets the current progress and label.
func (p *ProgressBar) Update(completed int, label string) {
	p.completed = completed
	p.label = label
}

// Render returns the formatted bar, or "" when the total is zero.
func (p *ProgressBar) Render() string {
	if p.total == 0 {
		return ""
	}

	completed := p.completed
	if completed > p.total {
		completed = p.total
	}
	filled := p.width * completed / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	labelStyle := lipgloss.NewStyle().
		Foreground(p.color).
		Bold(true)

	barStyle := lipgloss.NewStyle().
		Foreground(p.color)

	countStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B6B6B"))

	return labelStyle.Render(fmt.Sprintf("%-8s", p.label)) +
		barStyle.Render("["+bar+"]") +
		countStyle.Render(fmt.Sprintf(" %d/%d", p.completed, p.total))
}

var progressPreview bool

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Regenerate and commit the progress documents",
	Long: `Regenerate the progress snapshot and markdown digest from the solved set
and commit both to the repository.

With --preview the digest is rendered to the terminal and nothing is
committed.`,
	Args: cobra.NoArgs,
	RunE: runProgress,
}

func init() {
	progressCmd.Flags().BoolVar(&progressPreview, "preview", false, "Render the digest locally without committing")
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := openApp("progress")
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if progressPreview {
		_, digest, err := a.svc.Preview()
		if err != nil {
			return trackCLIError("progress", err)
		}
		_, _ = fmt.Fprint(out, renderMarkdown(digest))
		printSections(out, progress.Sections(digest))
		return nil
	}

	published, res := a.svc.ForceProgress(cmd.Context())
	if !res.Success {
		return trackCLIError("progress", errors.New(res.Error))
	}
	_, _ = fmt.Fprintf(out, "%s Progress published (%d solved)\n", okStyle.Render("✓"), published.Total)
	_, _ = fmt.Fprintln(out, field("Snapshot", published.SnapshotPath))
	_, _ = fmt.Fprintln(out, field("Digest", published.DigestPath))
	return nil
}

// printSections lists the item count of each digest section.
func printSections(w io.Writer, sections []progress.SectionCount) {
	if len(sections) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render("SECTIONS"))
	for _, sc := range sections {
		label := sc.Text
		if sc.Level > 2 {
			label = "  " + label
		}
		_, _ = fmt.Fprintln(w, field(label, fmt.Sprintf("%d", sc.Items)))
	}
}

// renderMarkdown renders markdown for the terminal, falling back to the
// raw text when rendering fails.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
