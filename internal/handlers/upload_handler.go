package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/models"
)

type UploadStore interface {
	Create(ctx context.Context, upload *models.Upload) error
}

type UploadHandler struct {
	uploads UploadStore
}

func NewUploadHandler(uploads UploadStore) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload stores an image and returns its path for use as an event
// cover.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "File is required.")
		return
	}

	filePath, err := helpers.UploadFile(c, fileHeader, "images")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	upload := &models.Upload{
		UserID:   userID,
		FileURL:  filePath,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Kind:     models.UploadImage,
		Size:     fileHeader.Size,
	}
	if err := h.uploads.Create(c.Request.Context(), upload); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record upload.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully.",
		"upload":  upload,
	})
}
