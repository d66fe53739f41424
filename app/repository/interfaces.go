package repository

import (
	"github.com/siteweaverhq/siteweaver/app/models"
)

// SessionRepository defines the interface for onboarding session operations
type SessionRepository interface {
	Create(session *models.OnboardingSession) error
	GetByUUID(uuid string) (*models.OnboardingSession, error)
	GetByResumeToken(token string) (*models.OnboardingSession, error)
	Update(session *models.OnboardingSession) error
	MarkCompleted(id uint) error
}

// SubmissionRepository defines the interface for submission (form data) operations
type SubmissionRepository interface {
	Create(sub *models.OnboardingSubmission) error
	GetByID(id uint) (*models.OnboardingSubmission, error)
	GetBySessionID(sessionID uint) (*models.OnboardingSubmission, error)
	GetOrCreateBySessionID(sessionID uint) (*models.OnboardingSubmission, error)
	Update(sub *models.OnboardingSubmission) error
	SaveFormData(id uint, formDataJSON string) error
}

// DiscountRepository defines the interface for discount code lookups
type DiscountRepository interface {
	GetByCode(code string) (*models.DiscountCode, error)
	IncrementRedemption(id uint) error
}

// CheckoutAttemptRepository defines the interface for checkout attempt persistence
type CheckoutAttemptRepository interface {
	GetBySubmissionAndKey(submissionID uint, requestKey string) (*models.CheckoutAttempt, error)
	GetLatestBySubmission(submissionID uint) (*models.CheckoutAttempt, error)
	Upsert(attempt *models.CheckoutAttempt) error
	MarkStatus(id uint, status string) error
}

// AssetRepository defines the interface for uploaded asset records
type AssetRepository interface {
	Create(asset *models.UploadAsset) error
	GetByUUID(uuid string) (*models.UploadAsset, error)
	ListBySubmission(submissionID uint) ([]models.UploadAsset, error)
	Delete(id uint) error
}

// Repositories bundles all repository implementations
type Repositories struct {
	Session         SessionRepository
	Submission      SubmissionRepository
	Discount        DiscountRepository
	CheckoutAttempt CheckoutAttemptRepository
	Asset           AssetRepository
}
