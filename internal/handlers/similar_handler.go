package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

const maxSimilarLimit = 20

type SimilarHandler struct {
	sessionRepo   repositories.SessionRepository
	candidateRepo repositories.CandidateRepository
	index         services.CandidateIndex
}

// NewSimilarHandler accepts a nil index; every request then answers 404.
func NewSimilarHandler(
	sessionRepo repositories.SessionRepository,
	candidateRepo repositories.CandidateRepository,
	index services.CandidateIndex,
) *SimilarHandler {
	return &SimilarHandler{
		sessionRepo:   sessionRepo,
		candidateRepo: candidateRepo,
		index:         index,
	}
}

// HandleSimilar handles GET /screenings/:id/candidates/:candidateId/similar
func (h *SimilarHandler) HandleSimilar(c *fiber.Ctx) error {
	if h.index == nil {
		return errorResponse(c, fiber.StatusNotFound, services.ErrIndexDisabled.Error())
	}

	session, err := lookupSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	record, err := lookupCandidate(c, h.candidateRepo, session)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 {
		limit = 1
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	similar, err := h.index.FindSimilar(c.UserContext(), record.ID, record.ResumeText, limit)
	if err != nil {
		log.Printf("❌ Similar candidate search failed for %s: %v\n", record.ID, err)
		return errorResponse(c, fiber.StatusBadGateway, "Similar candidate search failed")
	}

	return c.JSON(fiber.Map{
		"candidate_id": record.ID.String(),
		"similar":      similar,
	})
}
