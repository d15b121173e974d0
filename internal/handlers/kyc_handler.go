package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tewodrosk/tiketa/internal/helpers"
	"github.com/tewodrosk/tiketa/internal/middleware"
	"github.com/tewodrosk/tiketa/internal/models"
	"github.com/tewodrosk/tiketa/internal/service"
)

type KycHandler struct {
	kyc     *service.KycService
	uploads UploadStore
}

func NewKycHandler(kyc *service.KycService, uploads UploadStore) *KycHandler {
	return &KycHandler{kyc: kyc, uploads: uploads}
}

type KycReviewRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// Submit accepts an identity document as multipart upload and opens a
// verification request.
func (h *KycHandler) Submit(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Document file is required.")
		return
	}

	documentPath, err := helpers.UploadFile(c, fileHeader, "documents", helpers.DefaultKycUploadConfig)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.uploads.Create(c.Request.Context(), &models.Upload{
		UserID:   userID,
		FileURL:  documentPath,
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Kind:     models.UploadKyc,
		Size:     fileHeader.Size,
	}); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to record upload.")
		return
	}

	request, err := h.kyc.Submit(c.Request.Context(), userID, documentPath)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Verification request submitted.",
		"request": request,
	})
}

func (h *KycHandler) Review(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request ID.")
		return
	}

	var req KycReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	reviewerID, ok := middleware.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	request, err := h.kyc.Review(c.Request.Context(), reviewerID, requestID, models.KycStatus(req.Status), req.Reason)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification request reviewed.",
		"request": request,
	})
}

func (h *KycHandler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	requests, err := h.kyc.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		helpers.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
