package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/asteroid-belt/solvesync/internal/models"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change sync settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change sync settings",
	Long: `Change sync settings. Only the flags given are changed.

Examples:
  solvesync settings set --repository octo/solutions --mode CATEGORY
  solvesync settings set --header=false --slug-filenames`,
	Args: cobra.NoArgs,
	RunE: runSettingsSet,
}

var settingsFlags struct {
	repository       string
	branch           string
	baseDir          string
	mode             string
	overwrite        bool
	header           bool
	difficultyFolder bool
	listFolder       bool
	slugFilenames    bool
	debug            bool
}

func init() {
	f := settingsSetCmd.Flags()
	f.StringVar(&settingsFlags.repository, "repository", "", "owner/repo for GitHub, or a local path for the git backend")
	f.StringVar(&settingsFlags.branch, "branch", "", "Branch to commit to")
	f.StringVar(&settingsFlags.baseDir, "base-dir", "", "Folder inside the repository for synced files")
	f.StringVar(&settingsFlags.mode, "mode", "", "Layout: AUTO, CATEGORY, DIFFICULTY or FLAT")
	f.BoolVar(&settingsFlags.overwrite, "overwrite", true, "Replace solution files that already exist")
	f.BoolVar(&settingsFlags.header, "header", true, "Prepend a comment header to solution files")
	f.BoolVar(&settingsFlags.difficultyFolder, "difficulty-folder", false, "Add a difficulty folder in AUTO mode")
	f.BoolVar(&settingsFlags.listFolder, "list-folder", true, "Add the study list folder in AUTO mode")
	f.BoolVar(&settingsFlags.slugFilenames, "slug-filenames", false, "Prefix file names with the problem slug")
	f.BoolVar(&settingsFlags.debug, "debug", false, "Record debug entries in the activity log")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp("settings show")
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.db.GetSettings()
	if err != nil {
		return trackCLIError("settings show", err)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(settings)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp("settings set")
	if err != nil {
		return err
	}
	defer a.Close()

	settings, err := a.db.GetSettings()
	if err != nil {
		return trackCLIError("settings set", err)
	}
	if err := applySettingsFlags(cmd, &settings); err != nil {
		return trackCLIError("settings set", err)
	}

	if res := a.svc.SaveSettings(cmd.Context(), settings); !res.Success {
		return trackCLIError("settings set", errors.New(res.Error))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Settings saved\n", okStyle.Render("✓"))
	return nil
}

// applySettingsFlags copies the flags the user set onto settings.
func applySettingsFlags(cmd *cobra.Command, settings *models.Settings) error {
	changed := cmd.Flags().Changed

	if changed("repository") {
		settings.Repository = settingsFlags.repository
	}
	if changed("branch") {
		settings.Branch = settingsFlags.branch
	}
	if changed("base-dir") {
		settings.BaseDir = settingsFlags.baseDir
	}
	if changed("mode") {
		mode, err := models.ParseOrganizationMode(settingsFlags.mode)
		if err != nil {
			return err
		}
		settings.OrganizationMode = mode
	}
	if changed("overwrite") {
		settings.OverwriteExisting = settingsFlags.overwrite
	}
	if changed("header") {
		settings.IncludeHeader = settingsFlags.header
	}
	if changed("difficulty-folder") {
		settings.IncludeDifficultyFolder = settingsFlags.difficultyFolder
	}
	if changed("list-folder") {
		settings.IncludeListFolder = settingsFlags.listFolder
	}
	if changed("slug-filenames") {
		settings.FilenameIncludesSlug = settingsFlags.slugFilenames
	}
	if changed("debug") {
		settings.Debug = settingsFlags.debug
	}
	return nil
}
