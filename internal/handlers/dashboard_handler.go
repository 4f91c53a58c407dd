package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"swipe/interview-assistant/internal/repositories"
)

// DashboardHandler serves the reviewer's candidate browser. All routes sit
// behind the JWT middleware.
type DashboardHandler struct {
	candidates repositories.CandidateRepository
}

func NewDashboardHandler(candidates repositories.CandidateRepository) *DashboardHandler {
	return &DashboardHandler{candidates: candidates}
}

// HandleList handles GET /candidates with optional ?search= over name and
// email. Ordering beyond insertion order is left to the client.
func (h *DashboardHandler) HandleList(c *fiber.Ctx) error {
	candidates, err := h.candidates.List(c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"candidates": candidates})
}

// HandleDetail handles GET /candidates/:id including the full transcript.
func (h *DashboardHandler) HandleDetail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate ID format",
		})
	}

	candidate, err := h.candidates.FindByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(candidate)
}
