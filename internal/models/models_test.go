package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingEntry_MergeFillsOnlyEmptyFields(t *testing.T) {
	entry := &MappingEntry{Slug: "two-sum", Title: "Two Sum", Category: "Array"}

	changed := entry.Merge(CatalogEntry{
		Title:      "Other Title",
		Category:   "",
		ListName:   "Top Interview 150",
		Difficulty: "Easy",
		SourceURL:  "https://example.com/list/top-150",
	})

	assert.True(t, changed)
	assert.Equal(t, "Two Sum", entry.Title)
	assert.Equal(t, "Array", entry.Category)
	assert.Equal(t, "Top Interview 150", entry.ListName)
	assert.Equal(t, "Easy", entry.Difficulty)
	assert.Equal(t, []string{"https://example.com/list/top-150"}, entry.Sources)
}

func TestMappingEntry_MergeIsIdempotent(t *testing.T) {
	entry := &MappingEntry{Slug: "two-sum"}
	incoming := CatalogEntry{Title: "Two Sum", SourceURL: "https://example.com/a"}

	assert.True(t, entry.Merge(incoming))
	assert.False(t, entry.Merge(incoming))
	assert.Len(t, entry.Sources, 1)
}

func TestDifficultyBucket(t *testing.T) {
	tests := map[string]string{
		"easy":    DifficultyEasy,
		" Medium": DifficultyMedium,
		"HARD":    DifficultyHard,
		"":        DifficultyUnknown,
		"extreme": DifficultyUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, DifficultyBucket(in), "input %q", in)
	}
}

func TestParseOrganizationMode(t *testing.T) {
	mode, err := ParseOrganizationMode("flat")
	require.NoError(t, err)
	assert.Equal(t, OrganizationFlat, mode)

	_, err = ParseOrganizationMode("nested")
	assert.Error(t, err)
}

func TestSettings_NormalizeFallsBackToDefaults(t *testing.T) {
	s := Settings{Repository: " me/solutions ", BaseDir: "/leetcode/", OrganizationMode: "category"}
	s.Normalize()

	assert.Equal(t, "me/solutions", s.Repository)
	assert.Equal(t, "main", s.Branch)
	assert.Equal(t, "leetcode", s.BaseDir)
	assert.Equal(t, OrganizationCategory, s.OrganizationMode)

	s.OrganizationMode = "bogus"
	s.Normalize()
	assert.Equal(t, OrganizationAuto, s.OrganizationMode)
}

func TestSettings_SplitRepository(t *testing.T) {
	owner, repo, err := Settings{Repository: "octo/solutions.git"}.SplitRepository()
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "solutions", repo)

	_, _, err = Settings{Repository: "no-slash"}.SplitRepository()
	assert.Error(t, err)
}

func TestSubmissionPayload_CapturedAt(t *testing.T) {
	p := SubmissionPayload{At: 1700000000000}
	got := p.CapturedAt()
	require.NotNil(t, got)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), *got)

	assert.Nil(t, SubmissionPayload{}.CapturedAt())
	assert.Equal(t, "unknown", SubmissionPayload{}.NormalizedLanguage())
	assert.Equal(t, "python3", SubmissionPayload{Language: "Python3"}.NormalizedLanguage())
}
