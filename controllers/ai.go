package controllers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	openai "github.com/sashabaranov/go-openai"

	"github.com/nelnel19/BAHA-ALERT/models"
)

type chatReq struct {
	Message string `json:"message"`
}

// Chat handles POST /api/ai: a thin proxy to an OpenAI-compatible chat
// endpoint. No history is kept server-side; every message is its own chat.
func (h *Handlers) Chat(c *fiber.Ctx) error {
	var req chatReq
	if err := c.BodyParser(&req); err != nil {
		return plainErr(c, fiber.StatusBadRequest, "invalid JSON")
	}
	if strings.TrimSpace(req.Message) == "" {
		return plainErr(c, fiber.StatusBadRequest, "Missing message")
	}

	resp, err := h.AI.CreateChatCompletion(c.Context(), openai.ChatCompletionRequest{
		Model:       h.AIModel,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a disaster-preparedness assistant for flood-prone communities in the Philippines. Keep answers short and practical.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Message,
			},
		},
	})
	if err != nil {
		h.Metrics.UpstreamFailures.WithLabelValues("ai").Inc()
		slog.Error("ai: chat completion failed", "err", err.Error())
		return plainErr(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(resp.Choices) == 0 {
		return plainErr(c, fiber.StatusInternalServerError, "empty completion")
	}

	return c.JSON(models.ChatResp{Response: resp.Choices[0].Message.Content})
}
