package dto

import (
	"time"

	"github.com/orta-study/crm-backend/internal/domain"
)

// ChatRequest is a message to the assistant.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is one stored exchange.
type ChatResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatResponse maps a domain chat message.
func NewChatResponse(msg *domain.ChatMessage) ChatResponse {
	return ChatResponse{ID: msg.ID, Message: msg.Message, Response: msg.Response, CreatedAt: msg.CreatedAt}
}
