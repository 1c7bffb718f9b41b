package models

import "time"

// Credential is the remote authorization token. It lives in its own table
// and is never serialized.
type Credential struct {
	ID        string    `gorm:"primaryKey;size:64" json:"-"`
	Token     string    `gorm:"type:text" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName specifies the table name for GORM.
func (Credential) TableName() string {
	return "credentials"
}

// DefaultCredentialID is the row id of the single stored credential.
const DefaultCredentialID = "default"
