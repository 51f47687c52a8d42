package controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nelnel19/BAHA-ALERT/analysis"
)

const analysisFolder = "flood_analysis"

// AnalyzeFlood handles POST /api/flood-analyze. The image is stored (so the
// response can reference it) and classified from its channel statistics, but
// nothing is persisted in the database: the client may carry the suggested
// danger level into a later submission, or discard it.
func (h *Handlers) AnalyzeFlood(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return plainErr(c, fiber.StatusBadRequest, "Image is required")
	}

	up, err := h.Storage.Save(c.Context(), analysisFolder, file)
	if err != nil {
		h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
		slog.Error("flood-analyze: image upload failed", "err", err.Error())
		return plainErr(c, fiber.StatusInternalServerError, "Flood analysis failed")
	}

	src, err := file.Open()
	if err != nil {
		return plainErr(c, fiber.StatusInternalServerError, "Flood analysis failed")
	}
	defer src.Close()

	result, err := analysis.Analyze(src)
	if err != nil {
		slog.Error("flood-analyze: classification failed", "err", err.Error())
		return plainErr(c, fiber.StatusInternalServerError, "Flood analysis failed")
	}
	result.ImageURL = up.URL

	h.Metrics.AnalysesRun.Inc()
	return c.JSON(result)
}
