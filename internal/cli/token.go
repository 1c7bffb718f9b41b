package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the remote access token",
	Long: `Manage the remote access token.

A saved token takes precedence over SOLVESYNC_TOKEN and GITHUB_TOKEN.`,
}

var tokenSetCmd = &cobra.Command{
	Use:   "set [token]",
	Short: "Save the access token",
	Long: `Save the access token. The token is read from stdin when the argument
is omitted, which keeps it out of shell history.

When a repository is configured the token is checked against it first
and a rejected token is not saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenSet,
}

var tokenClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the saved access token",
	Args:  cobra.NoArgs,
	RunE:  runTokenClear,
}

func init() {
	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenClearCmd)
}

func runTokenSet(cmd *cobra.Command, args []string) error {
	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return trackCLIError("token set", fmt.Errorf("read stdin: %w", err))
		}
		token = string(data)
	}

	a, err := openApp("token set")
	if err != nil {
		return err
	}
	defer a.Close()

	if res := a.svc.SaveCredential(cmd.Context(), strings.TrimSpace(token)); !res.Success {
		return trackCLIError("token set", errors.New(res.Error))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Token saved\n", okStyle.Render("✓"))
	return nil
}

func runTokenClear(cmd *cobra.Command, args []string) error {
	a, err := openApp("token clear")
	if err != nil {
		return err
	}
	defer a.Close()

	if res := a.svc.ClearCredential(); !res.Success {
		return trackCLIError("token clear", errors.New(res.Error))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Token removed\n", okStyle.Render("✓"))
	return nil
}
