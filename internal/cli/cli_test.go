package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/solvesync/internal/models"
	"github.com/asteroid-belt/solvesync/internal/remote"
	"github.com/asteroid-belt/solvesync/internal/service"
	"github.com/asteroid-belt/solvesync/internal/syncer"
	"github.com/asteroid-belt/solvesync/internal/testutil"
)

// setupCLI points the CLI at a fresh home directory and a fake store.
func setupCLI(t *testing.T) *testutil.FakeStore {
	t.Helper()
	t.Setenv("SOLVESYNC_HOME", t.TempDir())
	t.Setenv("SOLVESYNC_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("SOLVESYNC_BACKEND", "")
	t.Setenv("SOLVESYNC_INBOX", "")
	t.Setenv("SOLVESYNC_MAX_RETRIES", "")

	store := testutil.NewFakeStore()
	prev := serviceOptions
	serviceOptions = service.Options{
		Factory: func(s models.Settings, token string) (remote.Store, error) {
			if token == "" || !s.HasRepository() {
				return nil, syncer.ErrNotConfigured
			}
			return store, nil
		},
	}
	t.Cleanup(func() { serviceOptions = prev })
	return store
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func configure(t *testing.T) {
	t.Helper()
	_, err := runCLI(t, "", "settings", "set", "--repository", "octo/solutions", "--mode", "flat")
	require.NoError(t, err)
	_, err = runCLI(t, "", "token", "set", "ghp_secret")
	require.NoError(t, err)
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "solvesync", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"catalog", "daemon", "logs", "progress", "settings", "status", "submit", "sync", "token"} {
		assert.Contains(t, names, want)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"sync is not configured", "config_error"},
		{"credential check failed: http 401", "auth_error"},
		{"sync already in progress", "conflict_error"},
		{"initialize database: locked", "database_error"},
		{"connection refused", "network_error"},
		{"permission denied", "permission_error"},
		{"file does not exist", "not_found_error"},
		{"malformed submission: empty slug", "validation_error"},
		{"boom", "unknown_error"},
	}
	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(errors.New(tt.err)))
		})
	}
}

func TestSubmitFileThenSync(t *testing.T) {
	store := setupCLI(t)
	configure(t)

	file := filepath.Join(t.TempDir(), "two_sum.py")
	require.NoError(t, os.WriteFile(file, []byte("print(1)\n"), 0644))

	out, err := runCLI(t, "", "submit", "--slug", "two-sum", "--title", "Two Sum", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Queued two-sum (python3)")

	// The command waits for the pass it kicked before exiting.
	content, ok := store.File("Problems/Two_Sum.py")
	require.True(t, ok, store.Paths())
	assert.Contains(t, string(content), "print(1)")

	out, err = runCLI(t, "", "submit", "--slug", "two-sum", "--title", "Two Sum", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Not queued")

	out, err = runCLI(t, "", "sync")
	require.NoError(t, err)
	assert.Contains(t, out, "Sync complete")
}

func TestSubmitStdin(t *testing.T) {
	store := setupCLI(t)
	configure(t)

	out, err := runCLI(t, "package main\n", "submit", "--slug", "two-sum", "--language", "golang", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued two-sum (golang)")

	_, ok := store.File("Problems/Two_Sum.go")
	assert.True(t, ok, store.Paths())
}

func TestSubmit_RequiresSlug(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "x", "submit")
	assert.Error(t, err)
}

func TestSubmit_UnconfiguredStaysQueued(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "print(1)", "submit", "--slug", "two-sum", "--language", "python3")
	require.NoError(t, err)

	out, err := runCLI(t, "", "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"queued": 1`)
	assert.Contains(t, out, `"slug": "two-sum"`)

	_, err = runCLI(t, "", "sync")
	assert.ErrorContains(t, err, syncer.ErrNotConfigured.Error())
}

func TestSettings(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "settings", "set", "--repository", "octo/solutions", "--header=false")
	require.NoError(t, err)

	out, err := runCLI(t, "", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "repository: octo/solutions")
	assert.Contains(t, out, "includeheader: false")
	assert.Contains(t, out, "overwriteexisting: true")

	_, err = runCLI(t, "", "settings", "set", "--mode", "sideways")
	assert.ErrorContains(t, err, "invalid organization mode")

	_, err = runCLI(t, "", "settings", "set", "--repository", "not-a-repo")
	assert.ErrorContains(t, err, "owner/repo")
}

func TestToken(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "  ghp_from_stdin\n", "token", "set")
	require.NoError(t, err)

	out, err := runCLI(t, "", "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"hasToken": true`)
	assert.NotContains(t, out, "ghp_from_stdin")

	_, err = runCLI(t, "", "token", "clear")
	require.NoError(t, err)
	out, err = runCLI(t, "", "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"hasToken": false`)

	_, err = runCLI(t, "   ", "token", "set")
	assert.ErrorContains(t, err, "token is empty")
}

func TestCatalog(t *testing.T) {
	setupCLI(t)

	file := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"entries":{"two-sum":{"title":"Two Sum","category":"Array","difficulty":"Easy","sourceUrl":"https://leetcode.com/problemset/"}}}`), 0644))

	out, err := runCLI(t, "", "catalog", "merge", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 1 entries (1 changed)")

	out, err = runCLI(t, "", "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"mapped": 1`)

	_, err = runCLI(t, "", "catalog", "reset")
	require.NoError(t, err)

	_, err = runCLI(t, `{"slug":"two-sum","source":"dom","at":1}`, "catalog", "merge")
	assert.ErrorContains(t, err, "missing entries")

	_, err = runCLI(t, `{"entries":{"two-sum":{}}}`, "catalog", "merge")
	assert.ErrorContains(t, err, "invalid event")
}

func TestProgress(t *testing.T) {
	store := setupCLI(t)
	configure(t)

	out, err := runCLI(t, "", "progress", "--preview")
	require.NoError(t, err)
	assert.Contains(t, out, "Solved Problems")
	assert.Empty(t, store.Paths())

	out, err = runCLI(t, "", "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress published (0 solved)")
	_, ok := store.File("progress.json")
	assert.True(t, ok)
}

func TestProgressPreview_ListsSections(t *testing.T) {
	setupCLI(t)
	configure(t)

	out, err := runCLI(t, "print(1)\n", "submit", "--slug", "two-sum", "--title", "Two Sum", "--language", "python3", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Queued two-sum")

	out, err = runCLI(t, "", "progress", "--preview")
	require.NoError(t, err)
	assert.Contains(t, out, "SECTIONS")
	assert.Regexp(t, `Recently Solved\s+1`, out)
}

func TestLogs(t *testing.T) {
	setupCLI(t)
	configure(t)

	out, err := runCLI(t, "", "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved")
	assert.Contains(t, out, "Credential saved")
	assert.Less(t, strings.Index(out, "Settings saved"), strings.Index(out, "Credential saved"))

	out, err = runCLI(t, "", "logs", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, err = runCLI(t, "", "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity yet.")
}
