package db

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/solvesync/internal/models"
)

// GetSettings loads the stored settings merged over the defaults.
func (db *DB) GetSettings() (models.Settings, error) {
	settings := models.DefaultSettings()

	raw, err := db.GetSyncMeta(models.SyncMetaSettings)
	if err != nil {
		return settings, err
	}
	if raw == "" {
		return settings, nil
	}

	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.DefaultSettings(), fmt.Errorf("decode settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings normalizes and persists settings.
func (db *DB) SaveSettings(settings models.Settings) error {
	settings.Normalize()
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return db.SetSyncMeta(models.SyncMetaSettings, string(data))
}

// GetCredential returns the stored token, or "" when none is saved.
func (db *DB) GetCredential() (string, error) {
	var cred models.Credential
	err := db.First(&cred, "id = ?", models.DefaultCredentialID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return cred.Token, nil
}

// SaveCredential stores the token, replacing any previous one.
func (db *DB) SaveCredential(token string) error {
	cred := models.Credential{ID: models.DefaultCredentialID, Token: token}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&cred).Error
}

// DeleteCredential removes the stored token.
func (db *DB) DeleteCredential() error {
	return db.Delete(&models.Credential{}, "id = ?", models.DefaultCredentialID).Error
}
