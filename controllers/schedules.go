package controllers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nelnel19/BAHA-ALERT/models"
	"github.com/nelnel19/BAHA-ALERT/store"
)

const scheduleFolder = "lgu_schedules"

func parseScheduleDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ListSchedules handles GET /api/schedules: upcoming-first by event date.
func (h *Handlers) ListSchedules(c *fiber.Ctx) error {
	events, err := h.Schedules.AllByDate(c.Context())
	if err != nil {
		return plainErr(c, fiber.StatusInternalServerError, "Failed to fetch schedules.")
	}
	return c.JSON(events)
}

// ListSchedulesAdmin handles GET /api/schedules/admin: newest created first.
func (h *Handlers) ListSchedulesAdmin(c *fiber.Ctx) error {
	schedules, err := h.Schedules.AllByCreated(c.Context())
	if err != nil {
		return plainErr(c, fiber.StatusInternalServerError, "Failed to fetch schedules.")
	}
	return c.JSON(schedules)
}

// CreateSchedule handles POST /api/schedules. The image is optional; when
// present, its URL and public id are stored as a pair so later update/delete
// can destroy it in object storage.
func (h *Handlers) CreateSchedule(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return plainErr(c, fiber.StatusBadRequest, "title is required")
	}

	category := strings.TrimSpace(c.FormValue("category"))
	if category != "" && !models.ValidCategory(category) {
		return plainErr(c, fiber.StatusBadRequest, "category must be pump_truck, relief_goods, or road_closure")
	}

	date, err := parseScheduleDate(c.FormValue("date"))
	if err != nil {
		return plainErr(c, fiber.StatusBadRequest, "invalid date")
	}

	event := models.LguSchedule{
		Title:       title,
		Description: strings.TrimSpace(c.FormValue("description")),
		Date:        date,
		Category:    category,
		Location:    strings.TrimSpace(c.FormValue("location")),
		CreatedAt:   clk.Now().UTC(),
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		up, uerr := h.Storage.Save(c.Context(), scheduleFolder, file)
		if uerr != nil {
			h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
			return plainErr(c, fiber.StatusInternalServerError, "Failed to create schedule.")
		}
		event.ImageURL = up.URL
		event.ImagePublicID = up.PublicID
	}

	stored, err := h.Schedules.Insert(c.Context(), event)
	if err != nil {
		h.Metrics.UpstreamFailures.WithLabelValues("database").Inc()
		return plainErr(c, fiber.StatusInternalServerError, "Failed to create schedule.")
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// UpdateSchedule handles PATCH /api/schedules/:id. When a replacement image
// arrives, the previous one is destroyed in object storage first.
func (h *Handlers) UpdateSchedule(c *fiber.Ctx) error {
	existing, err := h.Schedules.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return plainErr(c, fiber.StatusNotFound, "Event not found")
		}
		return plainErr(c, fiber.StatusInternalServerError, "Failed to update schedule.")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return plainErr(c, fiber.StatusBadRequest, "expected multipart form")
	}

	var patch store.SchedulePatch
	if v, ok := formValue(form.Value, "title"); ok {
		patch.Title = &v
	}
	if v, ok := formValue(form.Value, "description"); ok {
		patch.Description = &v
	}
	if v, ok := formValue(form.Value, "category"); ok {
		if !models.ValidCategory(v) {
			return plainErr(c, fiber.StatusBadRequest, "category must be pump_truck, relief_goods, or road_closure")
		}
		patch.Category = &v
	}
	if v, ok := formValue(form.Value, "location"); ok {
		patch.Location = &v
	}
	if v, ok := formValue(form.Value, "date"); ok {
		d, derr := parseScheduleDate(v)
		if derr != nil {
			return plainErr(c, fiber.StatusBadRequest, "invalid date")
		}
		patch.Date = &d
	}

	if file, ferr := c.FormFile("image"); ferr == nil && file != nil {
		if existing.ImagePublicID != "" {
			if derr := h.Storage.Destroy(c.Context(), existing.ImagePublicID); derr != nil {
				h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
				slog.Warn("schedules: old image destroy failed", "publicId", existing.ImagePublicID, "err", derr.Error())
			}
		}
		up, uerr := h.Storage.Save(c.Context(), scheduleFolder, file)
		if uerr != nil {
			h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
			return plainErr(c, fiber.StatusInternalServerError, "Failed to update schedule.")
		}
		patch.ImageURL = &up.URL
		patch.ImagePublicID = &up.PublicID
	}

	updated, err := h.Schedules.Update(c.Context(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return plainErr(c, fiber.StatusNotFound, "Event not found")
		}
		return plainErr(c, fiber.StatusInternalServerError, "Failed to update schedule.")
	}
	return c.JSON(updated)
}

// DeleteSchedule handles DELETE /api/schedules/:id. Unlike flood reports,
// the stored image is destroyed along with the record.
func (h *Handlers) DeleteSchedule(c *fiber.Ctx) error {
	existing, err := h.Schedules.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return plainErr(c, fiber.StatusNotFound, "Event not found")
		}
		return plainErr(c, fiber.StatusInternalServerError, "Failed to delete event")
	}

	if existing.ImagePublicID != "" {
		if derr := h.Storage.Destroy(c.Context(), existing.ImagePublicID); derr != nil {
			h.Metrics.UpstreamFailures.WithLabelValues("storage").Inc()
			slog.Warn("schedules: image destroy failed", "publicId", existing.ImagePublicID, "err", derr.Error())
		}
	}

	if err := h.Schedules.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return plainErr(c, fiber.StatusNotFound, "Event not found")
		}
		return plainErr(c, fiber.StatusInternalServerError, "Failed to delete event")
	}
	return c.JSON(fiber.Map{"message": "Event and image deleted successfully"})
}

// ScheduleCount handles GET /api/schedules/count.
func (h *Handlers) ScheduleCount(c *fiber.Ctx) error {
	count, err := h.Schedules.Count(c.Context())
	if err != nil {
		return plainErr(c, fiber.StatusInternalServerError, "Failed to count schedules.")
	}
	return c.JSON(models.ScheduleCountResp{TotalEvents: count})
}
