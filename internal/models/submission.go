package models

import (
	"strings"
	"time"
)

// Submission sources reported by the capture side.
const (
	SourceDOM       = "dom"
	SourceIntercept = "intercept"
	SourceManual    = "manual"
)

// SubmissionMeta carries optional runtime statistics for an accepted solution.
type SubmissionMeta struct {
	Runtime string `json:"runtime,omitempty"`
	Memory  string `json:"memory,omitempty"`
}

// SubmissionPayload is an inbound "problem solved" event.
type SubmissionPayload struct {
	Slug       string          `json:"slug"`
	Title      string          `json:"title"`
	Category   string          `json:"category,omitempty"`
	ListName   string          `json:"listName,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Language   string          `json:"language,omitempty"`
	Code       string          `json:"code,omitempty"`
	Meta       *SubmissionMeta `json:"meta,omitempty"`
	Source     string          `json:"source"`
	At         int64           `json:"at"` // epoch milliseconds
}

// CapturedAt converts the epoch-millisecond capture time, or returns nil
// when the payload did not carry one.
func (p SubmissionPayload) CapturedAt() *time.Time {
	if p.At <= 0 {
		return nil
	}
	t := time.UnixMilli(p.At).UTC()
	return &t
}

// NormalizedLanguage returns the lower-cased language, or "unknown".
func (p SubmissionPayload) NormalizedLanguage() string {
	lang := normalizeLabel(p.Language)
	if lang == "" {
		return "unknown"
	}
	return lang
}

// CatalogEntry is one slug's classification within a catalog merge event.
type CatalogEntry struct {
	Title      string `json:"title,omitempty"`
	Category   string `json:"category,omitempty"`
	ListName   string `json:"listName,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	SourceURL  string `json:"sourceUrl"`
}

// CatalogEvent is an inbound catalog discovery event.
type CatalogEvent struct {
	Entries   map[string]CatalogEntry `json:"entries"`
	UpdatedAt int64                   `json:"updatedAt"`
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
