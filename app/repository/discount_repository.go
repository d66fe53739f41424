package repository

import (
	"strings"

	"github.com/siteweaverhq/siteweaver/app/models"
	"gorm.io/gorm"
)

type gormDiscountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository creates a discount repository backed by GORM.
func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &gormDiscountRepository{db: db}
}

func (r *gormDiscountRepository) GetByCode(code string) (*models.DiscountCode, error) {
	var discount models.DiscountCode
	// Codes are stored and matched case-sensitively.
	if err := r.db.Where("BINARY code = ?", strings.TrimSpace(code)).First(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *gormDiscountRepository) IncrementRedemption(id uint) error {
	return r.db.Model(&models.DiscountCode{}).
		Where("id = ?", id).
		Update("redeemed_count", gorm.Expr("redeemed_count + 1")).Error
}
