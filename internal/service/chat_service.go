package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/orta-study/crm-backend/internal/domain"
	"github.com/orta-study/crm-backend/internal/repository"
	apperrors "github.com/orta-study/crm-backend/pkg/util/errorutil"
)

const (
	defaultChatHistory = 50
	maxChatHistory     = 200
)

// Responder produces the assistant's reply to a message.
type Responder interface {
	Reply(message string) string
}

type cannedReply struct {
	keywords []string
	text     string
}

// KeywordResponder answers with the first canned reply whose keyword occurs
// in the message.
type KeywordResponder struct {
	replies  []cannedReply
	fallback string
}

// NewKeywordResponder returns the default ORTA STUDY assistant.
func NewKeywordResponder() *KeywordResponder {
	return &KeywordResponder{
		replies: []cannedReply{
			{
				keywords: []string{"привет", "здравствуй", "hello"},
				text:     "Hello! I am the ORTA STUDY assistant. How can I help?",
			},
			{
				keywords: []string{"студент", "ученик", "student"},
				text:     "I can help you manage students. Add new students, browse the list and edit their details from the admin panel.",
			},
			{
				keywords: []string{"заявк", "лид", "lead"},
				text:     "Leads live in the sales panel. There you can review incoming leads, assign them to managers and track their status.",
			},
			{
				keywords: []string{"расписание", "schedule"},
				text:     "Schedule management is under development. Soon you will be able to build timetables for teachers and students.",
			},
			{
				keywords: []string{"помощь", "помоги", "help"},
				text:     "I can help with:\n- managing students\n- working with leads\n- navigating the system\n- questions about features\n\nAsk me anything!",
			},
		},
		fallback: "Thank you for your question. I am the ORTA STUDY assistant and can help you run the education center. Please clarify your question and I will do my best to help.",
	}
}

// Reply implements Responder.
func (r *KeywordResponder) Reply(message string) string {
	lower := strings.ToLower(message)
	for _, reply := range r.replies {
		for _, kw := range reply.keywords {
			if strings.Contains(lower, kw) {
				return reply.text
			}
		}
	}
	return r.fallback
}

// ChatService keeps each user's assistant conversation.
type ChatService struct {
	chats     repository.ChatRepository
	responder Responder
}

// NewChatService constructs the service.
func NewChatService(chats repository.ChatRepository, responder Responder) *ChatService {
	if responder == nil {
		responder = NewKeywordResponder()
	}
	return &ChatService{chats: chats, responder: responder}
}

// History returns the caller's latest messages in chronological order.
func (s *ChatService) History(ctx context.Context, actor *domain.Actor, limit int) ([]domain.ChatMessage, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if limit <= 0 {
		limit = defaultChatHistory
	}
	if limit > maxChatHistory {
		limit = maxChatHistory
	}
	msgs, err := s.chats.ListRecent(ctx, actor.ID, limit)
	if err != nil {
		return nil, apperrors.NewStoreFailure(fmt.Errorf("list chats: %w", err))
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Send stores the message with its canned reply.
func (s *ChatService) Send(ctx context.Context, actor *domain.Actor, message string) (*domain.ChatMessage, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message is required", nil)
	}
	msg := &domain.ChatMessage{
		UserID:   actor.ID,
		Message:  message,
		Response: s.responder.Reply(message),
	}
	if err := s.chats.Create(ctx, msg); err != nil {
		return nil, apperrors.NewStoreFailure(fmt.Errorf("create chat: %w", err))
	}
	return msg, nil
}

// Clear removes the caller's history.
func (s *ChatService) Clear(ctx context.Context, actor *domain.Actor) (int64, error) {
	if actor == nil {
		return 0, apperrors.NewUnauthorized("authentication required")
	}
	n, err := s.chats.DeleteByUser(ctx, actor.ID)
	if err != nil {
		return 0, apperrors.NewStoreFailure(fmt.Errorf("clear chats: %w", err))
	}
	return n, nil
}
