package repository

import (
	"errors"

	"github.com/siteweaverhq/siteweaver/app/models"
	"gorm.io/gorm"
)

type gormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a submission repository backed by GORM.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &gormSubmissionRepository{db: db}
}

func (r *gormSubmissionRepository) Create(sub *models.OnboardingSubmission) error {
	return r.db.Create(sub).Error
}

func (r *gormSubmissionRepository) GetByID(id uint) (*models.OnboardingSubmission, error) {
	var sub models.OnboardingSubmission
	if err := r.db.First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormSubmissionRepository) GetBySessionID(sessionID uint) (*models.OnboardingSubmission, error) {
	var sub models.OnboardingSubmission
	if err := r.db.Where("session_id = ?", sessionID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormSubmissionRepository) GetOrCreateBySessionID(sessionID uint) (*models.OnboardingSubmission, error) {
	sub, err := r.GetBySessionID(sessionID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	sub = &models.OnboardingSubmission{
		SessionID:           sessionID,
		FormDataJSON:        "{}",
		AdditionalLanguages: "[]",
	}
	if err := r.db.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *gormSubmissionRepository) Update(sub *models.OnboardingSubmission) error {
	return r.db.Save(sub).Error
}

func (r *gormSubmissionRepository) SaveFormData(id uint, formDataJSON string) error {
	return r.db.Model(&models.OnboardingSubmission{}).
		Where("id = ?", id).
		Update("form_data_json", formDataJSON).Error
}
