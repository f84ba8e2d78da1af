package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type DeleteHandler struct {
	sessionRepo   repositories.SessionRepository
	candidateRepo repositories.CandidateRepository
	index         services.CandidateIndex
}

// NewDeleteHandler accepts a nil index when no vector store is configured.
func NewDeleteHandler(
	sessionRepo repositories.SessionRepository,
	candidateRepo repositories.CandidateRepository,
	index services.CandidateIndex,
) *DeleteHandler {
	return &DeleteHandler{
		sessionRepo:   sessionRepo,
		candidateRepo: candidateRepo,
		index:         index,
	}
}

// HandleDelete handles DELETE /screenings/:id. Sessions still owned by the
// worker are refused.
func (h *DeleteHandler) HandleDelete(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	if session.Status == models.StatusQueued || session.Status == models.StatusProcessing {
		return errorResponse(c, fiber.StatusConflict, "Screening is still in progress")
	}

	if h.index != nil {
		if err := h.index.DeleteSession(c.UserContext(), session.ID); err != nil {
			log.Printf("❌ Failed to remove vectors for screening %s: %v\n", session.ID, err)
			return errorResponse(c, fiber.StatusBadGateway, "Failed to remove indexed candidates")
		}
	}

	if err := h.candidateRepo.DeleteBySession(session.ID); err != nil {
		log.Printf("❌ Failed to delete candidates for screening %s: %v\n", session.ID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete screening")
	}

	if err := h.sessionRepo.Delete(session.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Screening not found")
		}
		log.Printf("❌ Failed to delete screening %s: %v\n", session.ID, err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete screening")
	}

	log.Printf("🗑️  Screening %s deleted\n", session.ID)
	return c.SendStatus(fiber.StatusNoContent)
}
