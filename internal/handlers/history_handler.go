package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-matcher/internal/models"
	"alfredoptarigan/resume-matcher/internal/repositories"
)

type HistoryHandler struct {
	matchRepo repositories.MatchRunRepository
}

func NewHistoryHandler(matchRepo repositories.MatchRunRepository) *HistoryHandler {
	return &HistoryHandler{
		matchRepo: matchRepo,
	}
}

// HandleGetMatch handles GET /matches/:id
func (h *HistoryHandler) HandleGetMatch(c *fiber.Ctx) error {
	runID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid match ID format",
		})
	}

	run, err := h.matchRepo.FindByID(runID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchRunNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Match not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := models.MatchRunResponse{
		ID:                 run.ID.String(),
		Kind:               string(run.Kind),
		JobDescriptionName: run.JobDescriptionName,
		TotalResumes:       run.TotalResumes,
		CreatedAt:          run.CreatedAt,
		Results:            make([]models.MatchRecordResult, 0, len(run.Records)),
	}

	for _, record := range run.Records {
		response.Results = append(response.Results, models.MatchRecordResult{
			Rank:            record.Rank,
			ResumeName:      record.ResumeName,
			Score:           record.Score,
			MatchedKeywords: record.Keywords(),
		})
	}

	return c.JSON(response)
}
