package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusAbandoned = "abandoned"
)

// OnboardingSession identifies one wizard run. The resume token lets a
// returning visitor pick up a half-finished session without an account.
type OnboardingSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"uuid"`
	ResumeToken string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"-"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CurrentStep int       `gorm:"not null;default:1" json:"current_step"`
	CompletedAt *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate generates the public UUID and resume token
func (s *OnboardingSession) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == "" {
		s.UUID = uuid.New().String()
	}
	if s.ResumeToken == "" {
		token, err := generateResumeToken()
		if err != nil {
			return err
		}
		s.ResumeToken = token
	}
	return nil
}

func generateResumeToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
