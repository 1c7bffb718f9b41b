package models

import (
	"fmt"
	"strings"
)

// OrganizationMode controls the folder layout of synced solution files.
type OrganizationMode string

const (
	OrganizationAuto       OrganizationMode = "AUTO"
	OrganizationCategory   OrganizationMode = "CATEGORY"
	OrganizationDifficulty OrganizationMode = "DIFFICULTY"
	OrganizationFlat       OrganizationMode = "FLAT"
)

// OrganizationModes lists every valid mode in display order.
func OrganizationModes() []OrganizationMode {
	return []OrganizationMode{OrganizationAuto, OrganizationCategory, OrganizationDifficulty, OrganizationFlat}
}

// ParseOrganizationMode parses a mode name case-insensitively.
func ParseOrganizationMode(s string) (OrganizationMode, error) {
	mode := OrganizationMode(strings.ToUpper(strings.TrimSpace(s)))
	if mode.IsValid() {
		return mode, nil
	}
	return "", fmt.Errorf("invalid organization mode %q (expected AUTO, CATEGORY, DIFFICULTY or FLAT)", s)
}

// IsValid reports whether m is one of the known modes.
func (m OrganizationMode) IsValid() bool {
	switch m {
	case OrganizationAuto, OrganizationCategory, OrganizationDifficulty, OrganizationFlat:
		return true
	}
	return false
}

// Settings is the user-level sync configuration. It is persisted as a JSON
// document and always decoded over DefaultSettings, so fields missing from
// the stored document keep their defaults.
type Settings struct {
	Repository string `json:"repository"`
	Branch     string `json:"branch"`
	BaseDir    string `json:"baseDir"`

	OrganizationMode OrganizationMode `json:"organizationMode"`

	OverwriteExisting       bool `json:"overwriteExisting"`
	IncludeHeader           bool `json:"includeHeader"`
	IncludeDifficultyFolder bool `json:"includeDifficultyFolder"`
	IncludeListFolder       bool `json:"includeListFolder"`
	FilenameIncludesSlug    bool `json:"filenameIncludesSlug"`
	Debug                   bool `json:"debug"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		Branch:            "main",
		OrganizationMode:  OrganizationAuto,
		OverwriteExisting: true,
		IncludeHeader:     true,
		IncludeListFolder: true,
	}
}

// Normalize trims string fields and replaces invalid or empty values with
// defaults.
func (s *Settings) Normalize() {
	s.Repository = strings.TrimSpace(s.Repository)
	s.Branch = strings.TrimSpace(s.Branch)
	s.BaseDir = strings.Trim(strings.TrimSpace(s.BaseDir), "/")
	if s.Branch == "" {
		s.Branch = DefaultSettings().Branch
	}
	if !s.OrganizationMode.IsValid() {
		if mode, err := ParseOrganizationMode(string(s.OrganizationMode)); err == nil {
			s.OrganizationMode = mode
		} else {
			s.OrganizationMode = OrganizationAuto
		}
	}
}

// HasRepository reports whether a remote repository is configured.
func (s Settings) HasRepository() bool {
	return strings.TrimSpace(s.Repository) != ""
}

// SplitRepository splits an "owner/repo" identifier.
func (s Settings) SplitRepository() (owner, repo string, err error) {
	parts := strings.SplitN(strings.TrimSpace(s.Repository), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/repo)", s.Repository)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
