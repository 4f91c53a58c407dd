package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"swipe/interview-assistant/internal/models"
	"swipe/interview-assistant/internal/services"
)

type InterviewHandler struct {
	interviews services.InterviewService
}

func NewInterviewHandler(interviews services.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews}
}

// HandleStart handles POST /interview/start.
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid candidate_id format",
		})
	}

	state, err := h.interviews.Start(c.UserContext(), candidateID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

// HandleState handles GET /interview.
func (h *InterviewHandler) HandleState(c *fiber.Ctx) error {
	return c.JSON(h.interviews.State())
}

// HandleAnswer handles POST /interview/answer.
func (h *InterviewHandler) HandleAnswer(c *fiber.Ctx) error {
	var req models.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	result, err := h.interviews.SubmitAnswer(c.UserContext(), req.Answer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HandleTranscript handles GET /interview/transcript.
func (h *InterviewHandler) HandleTranscript(c *fiber.Ctx) error {
	messages, err := h.interviews.Transcript()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// HandleResume handles POST /interview/resume: continues an interview that
// was restored from the durable session after a reload.
func (h *InterviewHandler) HandleResume(c *fiber.Ctx) error {
	messages, err := h.interviews.Resume()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// HandleAbandon handles DELETE /interview.
func (h *InterviewHandler) HandleAbandon(c *fiber.Ctx) error {
	if err := h.interviews.Abandon(); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
