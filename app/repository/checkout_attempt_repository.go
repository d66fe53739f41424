package repository

import (
	"github.com/siteweaverhq/siteweaver/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormCheckoutAttemptRepository struct {
	db *gorm.DB
}

// NewCheckoutAttemptRepository creates a checkout attempt repository backed by GORM.
func NewCheckoutAttemptRepository(db *gorm.DB) CheckoutAttemptRepository {
	return &gormCheckoutAttemptRepository{db: db}
}

func (r *gormCheckoutAttemptRepository) GetBySubmissionAndKey(submissionID uint, requestKey string) (*models.CheckoutAttempt, error) {
	var attempt models.CheckoutAttempt
	err := r.db.Where("submission_id = ? AND request_key = ?", submissionID, requestKey).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *gormCheckoutAttemptRepository) GetLatestBySubmission(submissionID uint) (*models.CheckoutAttempt, error) {
	var attempt models.CheckoutAttempt
	err := r.db.Where("submission_id = ?", submissionID).
		Order("updated_at DESC").
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *gormCheckoutAttemptRepository) Upsert(attempt *models.CheckoutAttempt) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "submission_id"},
			{Name: "request_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"payment_intent_id",
			"setup_intent_id",
			"client_secret",
			"amount_total",
			"currency",
			"status",
			"updated_at",
		}),
	}).Create(attempt).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("submission_id = ? AND request_key = ?", attempt.SubmissionID, attempt.RequestKey).
		First(attempt).Error
}

func (r *gormCheckoutAttemptRepository) MarkStatus(id uint, status string) error {
	return r.db.Model(&models.CheckoutAttempt{}).Where("id = ?", id).Update("status", status).Error
}
