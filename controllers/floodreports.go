package controllers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nelnel19/BAHA-ALERT/models"
	"github.com/nelnel19/BAHA-ALERT/store"
)

const floodFolder = "flood_reports"

// SubmitReport handles POST /api/flood-reports. The image upload happens
// before the database write; if the upload fails the whole submission fails
// and nothing is persisted. The reverse failure (upload ok, insert fails)
// leaves an orphaned image, which is accepted.
func (h *Handlers) SubmitReport(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil || file == nil {
		return badReq(c, "Image is required")
	}

	reporterName := strings.TrimSpace(c.FormValue("reporterName"))
	contactNumber := NormalizeContactNumber(c.FormValue("contactNumber"))
	if reporterName == "" {
		return badReq(c, "reporterName is required")
	}
	if contactNumber == "" {
		return badReq(c, "contactNumber is required")
	}

	dangerLevel := strings.TrimSpace(c.FormValue("dangerLevel"))
	if dangerLevel == "" {
		dangerLevel = models.DangerModerate
	} else if !models.ValidDangerLevel(dangerLevel) {
		return badReq(c, "dangerLevel must be Low, Moderate, or High")
	}

	up, err := h.Storage.Save(c.Context(), floodFolder, file)
	if err != nil {
		h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
		slog.Error("flood-reports: image upload failed", "err", err.Error())
		return serverErr(c, err)
	}

	now := clk.Now().UTC()
	report := models.FloodReport{
		ReporterName:  reporterName,
		ContactNumber: contactNumber,
		Location:      strings.TrimSpace(c.FormValue("location")),
		Description:   strings.TrimSpace(c.FormValue("description")),
		ImageURL:      up.URL,
		ImagePublicID: up.PublicID,
		DangerLevel:   dangerLevel,
		ReportedAt:    now,
		CreatedAt:     now,
	}

	stored, err := h.Reports.Insert(c.Context(), report)
	if err != nil {
		h.Metrics.UpstreamFailures.WithLabelValues("database").Inc()
		return serverErr(c, err)
	}

	h.Metrics.ReportsSubmitted.Inc()
	return c.Status(fiber.StatusCreated).JSON(models.ReportResp{Success: true, Report: stored})
}

// ListReports handles GET /api/flood-reports: every report, newest first.
func (h *Handlers) ListReports(c *fiber.Ctx) error {
	reports, err := h.Reports.All(c.Context())
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(models.ReportListResp{Success: true, Reports: reports})
}

// MyReports handles GET /api/flood-reports/my-reports. Identity is a soft
// join: name as case-insensitive substring, number exact on digits, ANDed
// when both are present.
func (h *Handlers) MyReports(c *fiber.Ctx) error {
	reporterName := strings.TrimSpace(c.Query("reporterName"))
	contactNumber := strings.TrimSpace(c.Query("contactNumber"))

	if reporterName == "" && contactNumber == "" {
		return badReq(c, "Missing reporterName or contactNumber in query")
	}

	filter := store.ReportFilter{
		ReporterName:  reporterName,
		ContactNumber: NormalizeContactNumber(contactNumber),
	}

	reports, err := h.Reports.Find(c.Context(), filter)
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(models.ReportListResp{Success: true, Reports: reports})
}

// ReportCount handles GET /api/flood-reports/reportcount.
func (h *Handlers) ReportCount(c *fiber.Ctx) error {
	count, err := h.Reports.Count(c.Context())
	if err != nil {
		return serverErr(c, err)
	}
	return c.JSON(models.CountResp{Success: true, Count: count})
}

// UpdateReport handles PUT /api/flood-reports/:id. Any subset of fields may
// arrive; only sent fields are written. A new image replaces imageUrl but the
// old image is left in storage.
func (h *Handlers) UpdateReport(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badReq(c, "expected multipart form")
	}

	var patch store.ReportPatch
	if v, ok := formValue(form.Value, "reporterName"); ok {
		patch.ReporterName = &v
	}
	if v, ok := formValue(form.Value, "contactNumber"); ok {
		n := NormalizeContactNumber(v)
		patch.ContactNumber = &n
	}
	if v, ok := formValue(form.Value, "location"); ok {
		patch.Location = &v
	}
	if v, ok := formValue(form.Value, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(form.Value, "dangerLevel"); ok {
		if !models.ValidDangerLevel(v) {
			return badReq(c, "dangerLevel must be Low, Moderate, or High")
		}
		patch.DangerLevel = &v
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		up, uerr := h.Storage.Save(c.Context(), floodFolder, file)
		if uerr != nil {
			h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
			return serverErr(c, uerr)
		}
		patch.ImageURL = &up.URL
		patch.ImagePublicID = &up.PublicID
	}

	updated, err := h.Reports.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Report not found")
		}
		return serverErr(c, err)
	}
	return c.JSON(models.ReportResp{Success: true, Report: updated})
}

// DeleteReport handles DELETE /api/flood-reports/:id. Removal is permanent
// and does not destroy the stored image; the LGU schedule routes do, and the
// difference is deliberate (see DESIGN.md).
func (h *Handlers) DeleteReport(c *fiber.Ctx) error {
	if err := h.Reports.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(c, "Report not found")
		}
		return serverErr(c, err)
	}
	h.Metrics.ReportsDeleted.Inc()
	return c.JSON(models.MessageResp{Success: true, Message: "Report deleted successfully"})
}
