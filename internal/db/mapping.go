package db

import (
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// GetMapping retrieves the mapping entry for slug. Returns nil if not found.
func (db *DB) GetMapping(slug string) (*models.MappingEntry, error) {
	var entry models.MappingEntry
	err := db.First(&entry, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// ListMapping returns all mapping entries keyed by slug.
func (db *DB) ListMapping() (map[string]models.MappingEntry, error) {
	var entries []models.MappingEntry
	if err := db.Find(&entries).Error; err != nil {
		return nil, err
	}
	result := make(map[string]models.MappingEntry, len(entries))
	for _, e := range entries {
		result[e.Slug] = e
	}
	return result, nil
}

// MergeCatalog applies a fill-if-absent merge of catalog entries into the
// mapping. Returns the number of entries created or changed.
func (db *DB) MergeCatalog(entries map[string]models.CatalogEntry) (int, error) {
	slugs := make([]string, 0, len(entries))
	for slug := range entries {
		if strings.TrimSpace(slug) != "" {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)

	changed := 0
	err := db.Transaction(func(tx *DB) error {
		for _, slug := range slugs {
			existing, err := tx.GetMapping(slug)
			if err != nil {
				return err
			}
			entry := existing
			if entry == nil {
				entry = &models.MappingEntry{Slug: slug}
			}
			if !entry.Merge(entries[slug]) && existing != nil {
				continue
			}
			if err := tx.Save(entry).Error; err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	return changed, err
}

// ResetMapping deletes every mapping entry.
func (db *DB) ResetMapping() error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.MappingEntry{}).Error
}

// CountMapping returns the number of mapping entries.
func (db *DB) CountMapping() (int64, error) {
	var count int64
	err := db.Model(&models.MappingEntry{}).Count(&count).Error
	return count, err
}
