package controllers

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/nelnel19/BAHA-ALERT/models"
)

// NormalizeContactNumber strips every non-digit character. "+63 912-345-6789"
// becomes "639123456789". Stored and queried numbers both pass through here,
// so matching is exact on the digit subsequence.
func NormalizeContactNumber(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Report-route error envelope: {success:false, error}.

func badReq(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResp{Success: false, Error: msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResp{Success: false, Error: msg})
}

func serverErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResp{Success: false, Error: err.Error()})
}

// Plain {error} envelope used by the analysis, schedule, and AI routes.

func plainErr(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

// {msg} envelope used by the auth routes.

func msgResp(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{"msg": msg})
}

// formValue returns the first value for key and whether the key was present
// at all, so updates can distinguish "not sent" from "sent empty".
func formValue(form map[string][]string, key string) (string, bool) {
	vals, ok := form[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}
