package models

import (
	"sort"
	"strings"
	"time"
)

// MappingEntry holds the best-known classification for a slug, sourced from
// catalog discovery and independent of solved status.
type MappingEntry struct {
	Slug       string    `gorm:"primaryKey;size:200" json:"slug"`
	Title      string    `gorm:"size:255" json:"title,omitempty"`
	Category   string    `gorm:"size:100" json:"category,omitempty"`
	ListName   string    `gorm:"size:200" json:"listName,omitempty"`
	Difficulty string    `gorm:"size:20" json:"difficulty,omitempty"`
	Sources    []string  `gorm:"serializer:json;type:text" json:"sources,omitempty"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (MappingEntry) TableName() string {
	return "mapping_entries"
}

// Merge fills empty fields from incoming and adds sourceURL to the source
// set. Existing non-empty fields are never overwritten. Returns true when
// anything changed.
func (m *MappingEntry) Merge(incoming CatalogEntry) bool {
	changed := false
	fill := func(dst *string, src string) {
		src = strings.TrimSpace(src)
		if *dst == "" && src != "" {
			*dst = src
			changed = true
		}
	}
	fill(&m.Title, incoming.Title)
	fill(&m.Category, incoming.Category)
	fill(&m.ListName, incoming.ListName)
	fill(&m.Difficulty, incoming.Difficulty)

	if url := strings.TrimSpace(incoming.SourceURL); url != "" && !m.HasSource(url) {
		m.Sources = append(m.Sources, url)
		sort.Strings(m.Sources)
		changed = true
	}
	return changed
}

// HasSource reports whether url is already in the source set.
func (m *MappingEntry) HasSource(url string) bool {
	for _, s := range m.Sources {
		if s == url {
			return true
		}
	}
	return false
}
