package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-screener/internal/repositories"
)

type UsageHandler struct {
	usageRepo repositories.UsageRepository
}

func NewUsageHandler(usageRepo repositories.UsageRepository) *UsageHandler {
	return &UsageHandler{usageRepo: usageRepo}
}

// HandleSummary handles GET /usage
func (h *UsageHandler) HandleSummary(c *fiber.Ctx) error {
	summary, err := h.usageRepo.Summary(c.UserContext())
	if err != nil {
		log.Printf("❌ Failed to load usage summary: %v\n", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load usage summary")
	}

	return c.JSON(summary)
}
