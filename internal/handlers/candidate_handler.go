package handlers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"swipe/interview-assistant/internal/models"
	"swipe/interview-assistant/internal/repositories"
)

var (
	confirmEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	confirmPhoneRe = regexp.MustCompile(`^[+()\d\-.\s]{7,20}$`)
)

type CandidateHandler struct {
	candidates repositories.CandidateRepository
}

func NewCandidateHandler(candidates repositories.CandidateRepository) *CandidateHandler {
	return &CandidateHandler{candidates: candidates}
}

// HandleConfirmInfo handles PUT /candidates/:id/confirm. Confirmation is
// required exactly once per candidate before the interview starts.
func (h *CandidateHandler) HandleConfirmInfo(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate ID format",
		})
	}

	var req models.ConfirmInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	if err := validateConfirmInfo(&req); err != nil {
		return respondError(c, err)
	}

	confirmed := true
	update := repositories.CandidateUpdate{
		Name:          &req.Name,
		Email:         &req.Email,
		Phone:         &req.Phone,
		InfoConfirmed: &confirmed,
	}
	if err := h.candidates.Update(id, update); err != nil {
		return respondError(c, err)
	}

	candidate, err := h.candidates.FindByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(candidate)
}

// HandleCurrent returns the candidate the interview UI is working with.
func (h *CandidateHandler) HandleCurrent(c *fiber.Ctx) error {
	candidate, err := h.candidates.Current()
	if err != nil {
		return respondError(c, err)
	}
	if candidate == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no current candidate",
		})
	}
	return c.JSON(candidate)
}

func validateConfirmInfo(req *models.ConfirmInfoRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" {
		return models.NewValidationError("name", "name is required")
	}
	if !confirmEmailRe.MatchString(req.Email) {
		return models.NewValidationError("email", "invalid email address")
	}
	if !confirmPhoneRe.MatchString(req.Phone) {
		return models.NewValidationError("phone", "invalid phone number")
	}
	return nil
}
