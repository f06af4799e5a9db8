package handler

import (
	"context"
	"errors"

	"myarc/services"
	"myarc/utils"

	"github.com/gin-gonic/gin"
)

// ObjectStore is implemented by services.ObjectStorage.
type ObjectStore interface {
	PresignUpload(ctx context.Context, userID, contentType string) (*services.PresignedUpload, error)
	Delete(ctx context.Context, userID, key string) error
}

type presignRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

type deleteUploadRequest struct {
	Key string `json:"key" binding:"required"`
}

func PresignUploadHandler(c *gin.Context, storage ObjectStore) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "content_type is required")
		return
	}

	upload, err := storage.PresignUpload(c.Request.Context(), userID.Hex(), req.ContentType)
	if err != nil {
		respondStorageError(c, err)
		return
	}

	utils.Success(c, upload)
}

func DeleteUploadHandler(c *gin.Context, storage ObjectStore) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req deleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "key is required")
		return
	}

	if err := storage.Delete(c.Request.Context(), userID.Hex(), req.Key); err != nil {
		respondStorageError(c, err)
		return
	}

	utils.Message(c, "Upload deleted")
}

func respondStorageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStorageUnconfigured):
		utils.ServiceUnavailable(c, "Uploads are not available")
	case errors.Is(err, services.ErrUnsupportedContentType):
		utils.BadRequest(c, "Unsupported content type")
	case errors.Is(err, services.ErrForeignKey):
		utils.Forbidden(c, "Not your upload")
	default:
		utils.TrackError("storage", c.FullPath())
		_ = c.Error(err)
		utils.InternalError(c, "Storage request failed")
	}
}
