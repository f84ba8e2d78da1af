package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type InterviewHandler struct {
	sessionRepo   repositories.SessionRepository
	candidateRepo repositories.CandidateRepository
	generator     services.InterviewGenerator
}

func NewInterviewHandler(
	sessionRepo repositories.SessionRepository,
	candidateRepo repositories.CandidateRepository,
	generator services.InterviewGenerator,
) *InterviewHandler {
	return &InterviewHandler{
		sessionRepo:   sessionRepo,
		candidateRepo: candidateRepo,
		generator:     generator,
	}
}

type interviewResponse struct {
	CandidateID string          `json:"candidate_id"`
	Cached      bool            `json:"cached"`
	Items       []models.QAPair `json:"items"`
}

// HandleGenerate handles POST /screenings/:id/candidates/:candidateId/interview.
// Questions are stored on the candidate; ?refresh=true regenerates them.
func (h *InterviewHandler) HandleGenerate(c *fiber.Ctx) error {
	session, err := lookupSession(c, h.sessionRepo)
	if err != nil {
		return err
	}

	record, err := lookupCandidate(c, h.candidateRepo, session)
	if err != nil {
		return err
	}

	if !c.QueryBool("refresh") {
		if qa, ok := record.Interview(); ok && len(qa.Items) > 0 {
			return c.JSON(interviewResponse{CandidateID: record.ID.String(), Cached: true, Items: qa.Items})
		}
	}

	result := record.Result()
	if len(result.MatchedSkills) == 0 {
		return errorResponse(c, fiber.StatusUnprocessableEntity, services.ErrNoSkills.Error())
	}

	qa := h.generator.Generate(c.UserContext(), session.JobDescription, record.ResumeText, result.MatchedSkills)
	if qa.Error != "" && len(qa.Items) == 0 {
		return errorResponse(c, fiber.StatusBadGateway, qa.Error)
	}

	if err := h.candidateRepo.SaveInterview(record.ID, qa); err != nil {
		log.Printf("⚠️  Failed to store interview for %s: %v\n", record.ID, err)
	}

	return c.JSON(interviewResponse{CandidateID: record.ID.String(), Items: qa.Items})
}

func lookupCandidate(c *fiber.Ctx, repo repositories.CandidateRepository, session *models.ScreeningSession) (*models.CandidateRecord, error) {
	id, err := parseIDParam(c, "candidateId")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid candidate ID format")
	}

	record, err := repo.FindByID(session.ID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Candidate not found")
		}
		log.Printf("❌ Failed to load candidate %s: %v\n", id, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load candidate")
	}

	return record, nil
}
