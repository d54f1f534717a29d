package handler

import (
	"github.com/gofiber/fiber/v2"

	"assetvault/internal/service"
)

type analyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeAsset handles POST /functions/v1/analyze-asset. The body carries a
// single camera frame as a base64 data URI; the response is the model's
// free-text analysis plus the extracted estimate and confidence score.
func AnalyzeAsset(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Malformed input surfaces as a 500-class error like every other
		// failure of this endpoint; clients only distinguish ok from not ok.
		var req analyzeRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "invalid request body")
		}
		if req.Image == "" {
			return writeError(c, fiber.StatusInternalServerError, "No image provided")
		}

		res, err := svc.Analyze(c.UserContext(), req.Image)
		if err != nil {
			return writeErrorDetails(c, fiber.StatusInternalServerError, "Failed to analyze image", err.Error())
		}
		return c.JSON(res)
	}
}
