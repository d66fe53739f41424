package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/siteweaverhq/siteweaver/app/models"
	"github.com/siteweaverhq/siteweaver/app/repository"
	"github.com/siteweaverhq/siteweaver/internal/pkg/assetstore"
	"github.com/siteweaverhq/siteweaver/internal/pkg/sessioncontext"
)

// maxUploadSize caps one wizard upload at 25 MB.
const maxUploadSize = 25 * 1024 * 1024

var assetClient *assetstore.Client
var assetConfig *assetstore.Config

// InitializeUploadController installs the asset store client. A nil client
// disables uploads (the step is optional anyway).
func InitializeUploadController(client *assetstore.Client, cfg *assetstore.Config) {
	assetClient = client
	assetConfig = cfg
}

// HandleUploadAsset stores one multipart file in the asset store and records
// it against the submission.
func HandleUploadAsset(c *fiber.Ctx) error {
	if assetClient == nil {
		return jsonError(c, fiber.StatusServiceUnavailable, "uploads_disabled", "File uploads are not available")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing file")
	}
	if fileHeader.Size > maxUploadSize {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "file_too_large", "The file exceeds the 25 MB limit")
	}

	kind := c.FormValue("kind", models.AssetKindFile)
	switch kind {
	case models.AssetKindLogo, models.AssetKindPhoto, models.AssetKindFile:
	default:
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Unknown asset kind")
	}

	sctx := sessioncontext.GetSessionContext(c)

	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("[Upload] open multipart file: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Upload failed")
	}
	defer file.Close()

	assetUUID := uuid.New().String()
	objectKey := assetConfig.GetObjectKey(sctx.SessionUUID, assetUUID, fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	result, err := assetClient.Upload(c.UserContext(), objectKey, file, fileHeader.Size, contentType)
	if err != nil {
		log.Errorf("[Upload] store %s: %v", objectKey, err)
		return jsonError(c, fiber.StatusBadGateway, "storage_unavailable", "Upload failed. Please try again.")
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	asset := &models.UploadAsset{
		UUID:         assetUUID,
		SubmissionID: sctx.SubmissionID,
		Kind:         kind,
		FileName:     fileHeader.Filename,
		ObjectKey:    result.ObjectKey,
		ContentType:  result.ContentType,
		SizeBytes:    result.Size,
	}
	if err := repos.Asset.Create(asset); err != nil {
		log.Errorf("[Upload] record asset %s: %v", assetUUID, err)
		// The object is orphaned; clean it up best effort.
		if derr := assetClient.Delete(c.UserContext(), objectKey); derr != nil {
			log.Warnf("[Upload] orphan cleanup failed for %s: %v", objectKey, derr)
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Upload failed")
	}

	return c.Status(fiber.StatusCreated).JSON(asset)
}

// HandleListAssets returns every asset uploaded for the submission.
func HandleListAssets(c *fiber.Ctx) error {
	sctx := sessioncontext.GetSessionContext(c)
	repos := repository.GetGlobalFactory().GetRepositories()

	assets, err := repos.Asset.ListBySubmission(sctx.SubmissionID)
	if err != nil {
		log.Errorf("[Upload] list assets for submission %d: %v", sctx.SubmissionID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not list uploads")
	}
	return c.JSON(fiber.Map{"assets": assets})
}

// HandleDeleteAsset removes one uploaded file and its record.
func HandleDeleteAsset(c *fiber.Ctx) error {
	sctx := sessioncontext.GetSessionContext(c)
	repos := repository.GetGlobalFactory().GetRepositories()

	asset, err := repos.Asset.GetByUUID(c.Params("uuid"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Asset not found")
		}
		log.Errorf("[Upload] load asset %s: %v", c.Params("uuid"), err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not delete upload")
	}
	if asset.SubmissionID != sctx.SubmissionID {
		return jsonError(c, fiber.StatusNotFound, "not_found", "Asset not found")
	}

	if assetClient != nil {
		if err := assetClient.Delete(c.UserContext(), asset.ObjectKey); err != nil {
			log.Warnf("[Upload] object delete failed for %s: %v", asset.ObjectKey, err)
		}
	}
	if err := repos.Asset.Delete(asset.ID); err != nil {
		log.Errorf("[Upload] delete asset record %d: %v", asset.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Could not delete upload")
	}

	return c.SendStatus(fiber.StatusNoContent)
}
