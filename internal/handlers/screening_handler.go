package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type ScreeningHandler struct {
	sessionRepo repositories.SessionRepository
	worker      services.Worker
	maxFileSize int64
	maxFiles    int
}

func NewScreeningHandler(
	sessionRepo repositories.SessionRepository,
	worker services.Worker,
	maxFileSize int64,
	maxFiles int,
) *ScreeningHandler {
	return &ScreeningHandler{
		sessionRepo: sessionRepo,
		worker:      worker,
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
	}
}

// HandleCreate handles POST /screenings. Files are read into memory and handed
// to the worker; the response only carries the session id.
func (h *ScreeningHandler) HandleCreate(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "failed to parse multipart form")
	}

	files := form.File["resumes"]
	mode := models.ScreeningMode(strings.TrimSpace(formValue(form, "mode")))
	if mode == "" {
		mode = models.ModeEvaluation
	}

	req := models.CreateScreeningRequest{
		JobDescription: strings.TrimSpace(formValue(form, "job_description")),
		Mode:           mode,
		UserEmail:      userFromRequest(c),
		FileCount:      len(files),
	}
	if err := getValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": validationErrors(err),
		})
	}

	if h.maxFiles > 0 && len(files) > h.maxFiles {
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Too many files. Max files per batch: %d", h.maxFiles))
	}

	labels, err := services.ParseLabels(formValue(form, "ground_truth"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if len(labels) > 0 && mode != models.ModeBatchMetrics {
		return errorResponse(c, fiber.StatusBadRequest, "ground_truth requires mode batch_metrics")
	}
	if len(labels) > 0 && len(labels) != len(files) {
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("%s: %d labels for %d files", services.ErrLabelLengthMismatch, len(labels), len(files)))
	}

	documents := make([]models.UploadedDocument, 0, len(files))
	for _, fh := range files {
		if fh.Size > h.maxFileSize {
			return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("File %s too large. Max size: %d bytes", fh.Filename, h.maxFileSize))
		}

		doc, err := readUpload(fh)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		documents = append(documents, doc)
	}

	session := &models.ScreeningSession{
		ID:             uuid.New(),
		UserEmail:      req.UserEmail,
		JobDescription: req.JobDescription,
		Mode:           mode,
		Status:         models.StatusQueued,
		Total:          len(documents),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.sessionRepo.Create(session); err != nil {
		log.Printf("❌ Failed to create screening session: %v\n", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create screening session")
	}

	err = h.worker.EnqueueJob(&services.ScreeningJob{
		SessionID: session.ID,
		Request: models.BatchRequest{
			UserID:         req.UserEmail,
			JobDescription: req.JobDescription,
			Documents:      documents,
			GroundTruth:    labels,
			Mode:           mode,
		},
	})
	if err != nil {
		if updateErr := h.sessionRepo.UpdateError(session.ID, err.Error()); updateErr != nil {
			log.Printf("⚠️  Failed to mark session %s failed: %v\n", session.ID, updateErr)
		}
		if errors.Is(err, services.ErrQueueFull) {
			return errorResponse(c, fiber.StatusServiceUnavailable, "Screening queue is full, please retry later")
		}
		return errorResponse(c, fiber.StatusServiceUnavailable, "Screening worker is not accepting jobs")
	}

	return c.Status(fiber.StatusAccepted).JSON(models.CreateScreeningResponse{
		ID:     session.ID.String(),
		Status: string(models.StatusQueued),
		Total:  len(documents),
	})
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func readUpload(fh *multipart.FileHeader) (models.UploadedDocument, error) {
	f, err := fh.Open()
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	return models.UploadedDocument{
		Filename:     fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		Content:      content,
	}, nil
}
