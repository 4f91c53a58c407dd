package handlers

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"swipe/interview-assistant/internal/models"
	"swipe/interview-assistant/internal/repositories"
	"swipe/interview-assistant/internal/services"
)

type UploadHandler struct {
	candidates  repositories.CandidateRepository
	storage     services.StorageService
	parser      services.ResumeParser
	maxFileSize int64
}

func NewUploadHandler(
	candidates repositories.CandidateRepository,
	storage services.StorageService,
	parser services.ResumeParser,
	maxFileSize int64,
) *UploadHandler {
	return &UploadHandler{
		candidates:  candidates,
		storage:     storage,
		parser:      parser,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload receives a resume (multipart field "resume"), extracts text
// and contact fields, and creates the pending candidate as current.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing 'resume' file field",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to open uploaded file",
		})
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to read uploaded file",
		})
	}

	text, err := h.parser.ExtractText(fileHeader.Filename, data)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to parse resume: %v", err),
		})
	}
	info := h.parser.ExtractContactInfo(text)

	filename, _, err := h.storage.SaveResume(fileHeader.Filename, data)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to store resume: %v", err),
		})
	}

	candidate := models.Candidate{
		ID:         uuid.New(),
		Name:       info.Name,
		Email:      info.Email,
		Phone:      info.Phone,
		ResumeFile: filename,
		ResumeText: text,
		Status:     models.StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := h.candidates.Create(&candidate); err != nil {
		h.storage.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save candidate record",
		})
	}
	if err := h.candidates.SetCurrent(&candidate.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to set current candidate",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.UploadResponse{
		ID:        candidate.ID.String(),
		Name:      candidate.Name,
		Email:     candidate.Email,
		Phone:     candidate.Phone,
		Status:    string(candidate.Status),
		NeedsInfo: true,
	})
}
