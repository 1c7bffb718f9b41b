// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
)

// SkipIntegration skips the test if RUN_INTEGRATION_TESTS is not set.
// Use this for tests that talk to a live GitHub repository; they also
// need SOLVESYNC_TEST_REPO (owner/repo) and SOLVESYNC_TEST_TOKEN.
//
// Run integration tests with: RUN_INTEGRATION_TESTS=1 go test ./...
func SkipIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test (set RUN_INTEGRATION_TESTS=1 to run)")
	}
}
