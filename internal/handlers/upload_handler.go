package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/models"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/repositories"
	"github.com/Rarvelom/OffHeadHunter-Reboot-Final-Project/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	userRepo       repositories.UserRepository
	storageService services.StorageService
	vectorizer     services.VectorizerService
	maxFileSize    int64
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	userRepo repositories.UserRepository,
	storageService services.StorageService,
	vectorizer services.VectorizerService,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		userRepo:       userRepo,
		storageService: storageService,
		vectorizer:     vectorizer,
		maxFileSize:    maxFileSize,
	}
}

// HandleUpload handles POST /upload: stores the CV PDF, records it, and runs
// the vectorization pipeline before answering.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.FormValue("user_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid or missing user_id",
		})
	}

	if _, err := h.userRepo.FindByID(userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	cvFile, err := c.FormFile("cv")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No CV file uploaded. Please upload 'cv' as a PDF file.",
		})
	}

	if cvFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("CV file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveCV(cvFile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV file: %v", err),
		})
	}

	doc := models.Document{
		ID:               uuid.New(),
		UserID:           userID,
		Filename:         filename,
		OriginalFileName: cvFile.Filename,
		FileType:         "cv",
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to save CV document record: %v", err),
		})
	}

	chunkCount, err := h.vectorizer.VectorizeCV(c.Context(), &doc)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to vectorize CV: %v", err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "CV uploaded and vectorized successfully",
		"document": models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			FileType:     doc.FileType,
			ChunkCount:   chunkCount,
		},
	})
}
