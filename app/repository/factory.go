package repository

import (
	"sync"

	"gorm.io/gorm"
)

// NewRepositories creates all repository implementations for a DB handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Session:         NewSessionRepository(db),
		Submission:      NewSubmissionRepository(db),
		Discount:        NewDiscountRepository(db),
		CheckoutAttempt: NewCheckoutAttemptRepository(db),
		Asset:           NewAssetRepository(db),
	}
}

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetSessionRepository returns the onboarding session repository instance
func (f *Factory) GetSessionRepository() SessionRepository {
	return f.GetRepositories().Session
}

// GetSubmissionRepository returns the submission repository instance
func (f *Factory) GetSubmissionRepository() SubmissionRepository {
	return f.GetRepositories().Submission
}

// GetDiscountRepository returns the discount repository instance
func (f *Factory) GetDiscountRepository() DiscountRepository {
	return f.GetRepositories().Discount
}

// GetCheckoutAttemptRepository returns the checkout attempt repository instance
func (f *Factory) GetCheckoutAttemptRepository() CheckoutAttemptRepository {
	return f.GetRepositories().CheckoutAttempt
}

// GetAssetRepository returns the upload asset repository instance
func (f *Factory) GetAssetRepository() AssetRepository {
	return f.GetRepositories().Asset
}

// Global factory instance
var globalFactory *Factory
var factoryOnce sync.Once

// InitializeFactory initializes the global repository factory
func InitializeFactory(db *gorm.DB) {
	factoryOnce.Do(func() {
		globalFactory = NewFactory(db)
	})
}

// GetGlobalFactory returns the global repository factory
func GetGlobalFactory() *Factory {
	return globalFactory
}
