package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/solvesync/internal/layout"
	"github.com/asteroid-belt/solvesync/internal/models"
)

var (
	submitSlug       string
	submitTitle      string
	submitLanguage   string
	submitDifficulty string
	submitCategory   string
	submitList       string
)

var submitCmd = &cobra.Command{
	Use:   "submit [file]",
	Short: "Queue an accepted solution for syncing",
	Long: `Queue an accepted solution for syncing.

The solution is read from the file argument, or from stdin when the
argument is omitted or "-". The language defaults to the one implied by
the file extension.

Examples:
  solvesync submit --slug two-sum two_sum.py
  pbpaste | solvesync submit --slug two-sum --language python3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVar(&submitSlug, "slug", "", "Problem slug, e.g. two-sum (required)")
	submitCmd.Flags().StringVar(&submitTitle, "title", "", "Problem title")
	submitCmd.Flags().StringVarP(&submitLanguage, "language", "l", "", "Language identifier, e.g. python3")
	submitCmd.Flags().StringVar(&submitDifficulty, "difficulty", "", "Easy, Medium or Hard")
	submitCmd.Flags().StringVar(&submitCategory, "category", "", "Topic category")
	submitCmd.Flags().StringVar(&submitList, "list", "", "Study list name")
	_ = submitCmd.MarkFlagRequired("slug")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	code, name, err := readInput(cmd, args)
	if err != nil {
		return trackCLIError("submit", err)
	}

	language := submitLanguage
	if language == "" && name != "" {
		language = layout.LanguageForExtension(filepath.Ext(name))
	}

	a, err := openApp("submit")
	if err != nil {
		return err
	}
	defer a.Close()

	payload := models.SubmissionPayload{
		Slug:       submitSlug,
		Title:      submitTitle,
		Language:   language,
		Difficulty: submitDifficulty,
		Category:   submitCategory,
		ListName:   submitList,
		Code:       code,
		Source:     models.SourceManual,
		At:         time.Now().UnixMilli(),
	}

	accepted, res := a.svc.Submit(cmd.Context(), payload)
	if !res.Success {
		return trackCLIError("submit", errors.New(res.Error))
	}
	// Let the pass started by the enqueue finish before the process exits.
	a.svc.Wait()

	out := cmd.OutOrStdout()
	if !accepted {
		_, _ = fmt.Fprintf(out, "%s Not queued: identical to a pending or recently synced solution\n", mutedStyle.Render("•"))
		return nil
	}
	_, _ = fmt.Fprintf(out, "%s Queued %s (%s)\n", okStyle.Render("✓"), payload.Slug, payload.NormalizedLanguage())
	return nil
}

// readInput returns the content of the file argument, or of stdin when the
// argument is omitted or "-", and the file name when there is one.
func readInput(cmd *cobra.Command, args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read solution: %w", err)
	}
	return string(data), args[0], nil
}
