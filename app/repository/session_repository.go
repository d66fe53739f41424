package repository

import (
	"time"

	"github.com/siteweaverhq/siteweaver/app/models"
	"gorm.io/gorm"
)

type gormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a session repository backed by GORM.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db}
}

func (r *gormSessionRepository) Create(session *models.OnboardingSession) error {
	return r.db.Create(session).Error
}

func (r *gormSessionRepository) GetByUUID(uuid string) (*models.OnboardingSession, error) {
	var session models.OnboardingSession
	if err := r.db.Where("uuid = ?", uuid).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *gormSessionRepository) GetByResumeToken(token string) (*models.OnboardingSession, error) {
	var session models.OnboardingSession
	if err := r.db.Where("resume_token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *gormSessionRepository) Update(session *models.OnboardingSession) error {
	return r.db.Save(session).Error
}

func (r *gormSessionRepository) MarkCompleted(id uint) error {
	now := time.Now()
	return r.db.Model(&models.OnboardingSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       models.SessionStatusCompleted,
		"completed_at": &now,
	}).Error
}
