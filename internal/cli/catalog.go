package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/solvesync/internal/inbox"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the problem catalog mapping",
	Long: `Manage the problem catalog mapping.

The mapping supplies titles, categories, study lists and difficulties for
problems whose submissions arrive without them.`,
}

var catalogMergeCmd = &cobra.Command{
	Use:   "merge [file]",
	Short: "Merge a catalog event document into the mapping",
	Long: `Merge a catalog event document into the mapping.

The document is read from the file argument, or from stdin, and must be
a JSON object of the form {"entries": {"<slug>": {...}}}.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogMerge,
}

var catalogResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every mapping entry",
	Args:  cobra.NoArgs,
	RunE:  runCatalogReset,
}

func init() {
	catalogCmd.AddCommand(catalogMergeCmd)
	catalogCmd.AddCommand(catalogResetCmd)
}

func runCatalogMerge(cmd *cobra.Command, args []string) error {
	data, _, err := readInput(cmd, args)
	if err != nil {
		return trackCLIError("catalog merge", err)
	}

	v, err := inbox.NewValidator()
	if err != nil {
		return trackCLIError("catalog merge", err)
	}
	ev, err := v.Decode([]byte(data))
	if err != nil {
		return trackCLIError("catalog merge", err)
	}
	if ev.Catalog == nil {
		return trackCLIError("catalog merge", errors.New("invalid catalog: missing entries object"))
	}

	a, err := openApp("catalog merge")
	if err != nil {
		return err
	}
	defer a.Close()

	changed, res := a.svc.MergeCatalog(cmd.Context(), *ev.Catalog)
	if !res.Success {
		return trackCLIError("catalog merge", errors.New(res.Error))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Merged %d entries (%d changed)\n",
		okStyle.Render("✓"), len(ev.Catalog.Entries), changed)
	return nil
}

func runCatalogReset(cmd *cobra.Command, args []string) error {
	a, err := openApp("catalog reset")
	if err != nil {
		return err
	}
	defer a.Close()

	if res := a.svc.ResetMapping(); !res.Success {
		return trackCLIError("catalog reset", errors.New(res.Error))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Catalog mapping cleared\n", okStyle.Render("✓"))
	return nil
}
