package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AssetKindLogo  = "logo"
	AssetKindPhoto = "photo"
	AssetKindFile  = "file"
)

// UploadAsset records a file the customer uploaded during onboarding and the
// S3 object key it was stored under.
type UploadAsset struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Kind         string    `gorm:"type:varchar(20);not null;default:'file'" json:"kind"`
	FileName     string    `gorm:"type:varchar(255);not null" json:"file_name"`
	ObjectKey    string    `gorm:"type:varchar(512);not null" json:"object_key"`
	ContentType  string    `gorm:"type:varchar(100);not null;default:''" json:"content_type"`
	SizeBytes    int64     `gorm:"not null;default:0" json:"size_bytes"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate assigns the public UUID.
func (a *UploadAsset) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}
