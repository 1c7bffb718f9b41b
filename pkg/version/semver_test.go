package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsed_ValidSemver(t *testing.T) {
	tests := []struct {
		version    string
		wantMajor  uint64
		wantMinor  uint64
		wantPatch  uint64
		wantPrerel string
		wantMeta   string
	}{
		{"v1.0.0", 1, 0, 0, "", ""},
		{"v1.2.3", 1, 2, 3, "", ""},
		{"v0.1.0", 0, 1, 0, "", ""},
		{"v1.0.0-beta.1", 1, 0, 0, "beta.1", ""},
		{"v1.0.0-rc.2", 1, 0, 0, "rc.2", ""},
		{"v1.0.0-alpha", 1, 0, 0, "alpha", ""},
		{"v1.0.0+build123", 1, 0, 0, "", "build123"},
		{"v1.0.0-beta.1+build456", 1, 0, 0, "beta.1", "build456"},
		{"1.0.0", 1, 0, 0, "", ""}, // without v prefix
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			// Reset cached version
			resetParsedVersion()
			Version = tt.version

			v := Parsed()
			assert.NotNil(t, v, "should parse %s", tt.version)
			assert.Equal(t, tt.wantMajor, v.Major())
			assert.Equal(t, tt.wantMinor, v.Minor())
			assert.Equal(t, tt.wantPatch, v.Patch())
			assert.Equal(t, tt.wantPrerel, v.Prerelease())
			assert.Equal(t, tt.wantMeta, v.Metadata())
		})
	}
}

func TestParsed_InvalidVersion(t *testing.T) {
	tests := []string{
		"dev",
		"unknown",
		"",
		"not-a-version",
		"v1.0.0.0", // too many parts
	}

	for _, version := range tests {
		t.Run(version, func(t *testing.T) {
			resetParsedVersion()
			Version = version

			v := Parsed()
			assert.Nil(t, v, "should not parse %s", version)
		})
	}
}

func TestIsPrerelease(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v1.0.0", false},
		{"v1.0.0-beta.1", true},
		{"v1.0.0-rc.2", true},
		{"v1.0.0-alpha", true},
		{"v1.0.0+build123", false}, // metadata only, not prerelease
		{"dev", false},             // unparseable
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			resetParsedVersion()
			Version = tt.version

			assert.Equal(t, tt.want, IsPrerelease())
		})
	}
}

func TestIsDevBuild(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"v1.0.0", false},
		{"dev", true},
		{"unknown", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			resetParsedVersion()
			Version = tt.version

			assert.Equal(t, tt.want, IsDevBuild())
		})
	}
}

func TestUserAgent(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"v1.4.0", "solvesync/1.4.0"},
		{"1.4.0-rc.1+sha.abc", "solvesync/1.4.0-rc.1"},
		{"dev", "solvesync/dev"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			resetParsedVersion()
			Version = tt.version

			assert.Equal(t, tt.want, UserAgent())
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
		wantErr    bool
	}{
		{"v1.2.0", ">= 1.2", true, false},
		{"v1.1.9", ">= 1.2", false, false},
		{"v2.0.0", "^1.0", false, false},
		{"dev", ">= 9.0", true, false},
		{"v1.0.0", "", true, false},
		{"v1.0.0", "not a constraint", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.version+" "+tt.constraint, func(t *testing.T) {
			resetParsedVersion()
			Version = tt.version

			got, err := Satisfies(tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
