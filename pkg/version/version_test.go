package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version = "v1.2.0"
	Commit = "0123456789abcdef"
	BuildDate = "2026-01-02"

	info := Info()
	assert.Contains(t, info, "solvesync v1.2.0 (0123456)")
	assert.Contains(t, info, "built on 2026-01-02")
	assert.Contains(t, info, runtime.Version())
}
