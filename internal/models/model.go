package models

import (
	"time"
)

// Model is an uploaded simulation artifact tracked by the
// registry. The registry exclusively owns Path; nothing else
// reads or writes the stored artifact.
type Model struct {
	ID         string    `gorm:"type:text;primaryKey" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	Path       string    `gorm:"type:text;not null" json:"-"`
	UploadedAt time.Time `gorm:"not null" json:"uploaded_at"`
}

type Models []*Model
