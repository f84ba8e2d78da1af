package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type ResultHandler struct {
	sessionRepo   repositories.SessionRepository
	candidateRepo repositories.CandidateRepository
}

func NewResultHandler(sessionRepo repositories.SessionRepository, candidateRepo repositories.CandidateRepository) *ResultHandler {
	return &ResultHandler{
		sessionRepo:   sessionRepo,
		candidateRepo: candidateRepo,
	}
}

// HandleGetResult handles GET /screenings/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	session, err := h.findSession(c)
	if err != nil {
		return err
	}

	response := models.ScreeningResponse{
		ID:     session.ID.String(),
		Status: string(session.Status),
		Mode:   string(session.Mode),
	}

	if session.Status == models.StatusCompleted {
		records, err := h.candidateRepo.FindBySession(session.ID)
		if err != nil {
			log.Printf("❌ Failed to load candidates for %s: %v\n", session.ID, err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to load candidates")
		}

		response.Summary = &models.ScreeningSummary{
			FitCount: session.FitCount,
			Total:    session.Total,
		}
		response.Candidates = make([]models.CandidateResponse, 0, len(records))
		for _, rec := range records {
			response.Candidates = append(response.Candidates, models.CandidateResponse{
				ID:              rec.ID.String(),
				CandidateResult: rec.Result(),
			})
		}

		if session.Precision != nil && session.Recall != nil && session.F1 != nil {
			response.Metrics = &models.MetricsSummary{
				Precision: *session.Precision,
				Recall:    *session.Recall,
				F1:        *session.F1,
			}
		}
		response.MetricsError = session.MetricsError
	}

	if session.Status == models.StatusFailed && session.ErrorMessage != nil {
		response.ErrorMessage = session.ErrorMessage
	}

	return c.JSON(response)
}

// HandleExportCSV handles GET /screenings/:id/export.csv
func (h *ResultHandler) HandleExportCSV(c *fiber.Ctx) error {
	session, err := h.findSession(c)
	if err != nil {
		return err
	}

	if session.Status != models.StatusCompleted {
		return errorResponse(c, fiber.StatusConflict, fmt.Sprintf("Screening is %s; export is available once it completes", session.Status))
	}

	records, err := h.candidateRepo.FindBySession(session.ID)
	if err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load candidates")
	}

	results := make([]models.CandidateResult, 0, len(records))
	for _, rec := range records {
		results = append(results, rec.Result())
	}

	var buf bytes.Buffer
	ranked := models.RankedResultSet{Results: results, FitCount: session.FitCount, Total: session.Total}
	if err := services.WriteCSV(&buf, ranked); err != nil {
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to render CSV")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="screening-%s.csv"`, session.ID))
	return c.Send(buf.Bytes())
}

func (h *ResultHandler) findSession(c *fiber.Ctx) (*models.ScreeningSession, error) {
	return lookupSession(c, h.sessionRepo)
}

// lookupSession returns *fiber.Error values; ErrorHandler renders them.
func lookupSession(c *fiber.Ctx, repo repositories.SessionRepository) (*models.ScreeningSession, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid screening ID format")
	}

	session, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Screening not found")
		}
		log.Printf("❌ Failed to load screening %s: %v\n", id, err)
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load screening")
	}

	return session, nil
}
