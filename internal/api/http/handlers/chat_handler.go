package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/orta-study/crm-backend/internal/api/dto"
	"github.com/orta-study/crm-backend/internal/auth"
	"github.com/orta-study/crm-backend/internal/service"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

// ChatHandler exposes the assistant conversation.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chatService}
}

// History GET /api/ai/chats.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	msgs, err := h.chat.History(c.UserContext(), auth.ActorFromContext(c), c.QueryInt("limit", 0))
	if err != nil {
		return err
	}
	items := make([]dto.ChatResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, dto.NewChatResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Send POST /api/ai/chat.
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	msg, err := h.chat.Send(c.UserContext(), auth.ActorFromContext(c), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewChatResponse(msg)})
}

// Clear DELETE /api/ai/chats.
func (h *ChatHandler) Clear(c *fiber.Ctx) error {
	n, err := h.chat.Clear(c.UserContext(), auth.ActorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "chat history cleared", "deleted": n}})
}
