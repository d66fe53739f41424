package repository

import (
	"github.com/siteweaverhq/siteweaver/app/models"
	"gorm.io/gorm"
)

type gormAssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates an asset repository backed by GORM.
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &gormAssetRepository{db: db}
}

func (r *gormAssetRepository) Create(asset *models.UploadAsset) error {
	return r.db.Create(asset).Error
}

func (r *gormAssetRepository) GetByUUID(uuid string) (*models.UploadAsset, error) {
	var asset models.UploadAsset
	if err := r.db.Where("uuid = ?", uuid).First(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *gormAssetRepository) ListBySubmission(submissionID uint) ([]models.UploadAsset, error) {
	var assets []models.UploadAsset
	err := r.db.Where("submission_id = ?", submissionID).Order("created_at ASC").Find(&assets).Error
	return assets, err
}

func (r *gormAssetRepository) Delete(id uint) error {
	return r.db.Delete(&models.UploadAsset{}, id).Error
}
