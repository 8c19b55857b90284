package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cyberlegal/backend/internal/domain"
	"github.com/google/uuid"
)

const (
	// FallbackAnswer replaces the answer whenever the assistant call fails
	FallbackAnswer = "Error processing request. Please try again."
	// EmptyAnswer is shown when the assistant returns no text
	EmptyAnswer = "No response received."

	titleLength = 35
)

// ChatServiceConfig holds configuration for the chat service
type ChatServiceConfig struct {
	TopK int
}

// ChatService answers legal questions and keeps the conversation history
type ChatService struct {
	assistant domain.AssistantClient
	history   domain.HistoryRepository
	topK      int
	now       func() time.Time
	newID     func() string
}

// NewChatService creates a chat service with dependencies
func NewChatService(
	assistant domain.AssistantClient,
	history domain.HistoryRepository,
	config ChatServiceConfig,
) *ChatService {
	topK := config.TopK
	if topK <= 0 {
		topK = 5
	}
	return &ChatService{
		assistant: assistant,
		history:   history,
		topK:      topK,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// ChatReply is the bot message for one question and the conversation it belongs to
type ChatReply struct {
	ConversationID string         `json:"conversationId"`
	Message        domain.Message `json:"message"`
	Failed         bool           `json:"failed"`
}

// Ask answers question within conversationID, starting a new conversation
// when the ID is empty. An assistant failure is not an error: the reply
// carries the fallback text and Failed is set.
func (s *ChatService) Ask(ctx context.Context, conversationID, question string) (*ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidRequest)
	}

	// The exchange is appended in one store call after the answer arrives;
	// concurrent questions on one conversation must all be kept.
	if conversationID != "" {
		if _, err := s.history.Get(ctx, conversationID); err != nil {
			return nil, err
		}
	}

	userMessage := domain.Message{Role: domain.RoleUser, Text: question}
	reply := &ChatReply{ConversationID: conversationID}
	answer, err := s.assistant.Ask(ctx, &domain.AskRequest{Question: question, TopK: s.topK})
	switch {
	case err != nil:
		log.Printf("[Chat] Ask failed: %v", err)
		reply.Message = domain.Message{Role: domain.RoleBot, Text: FallbackAnswer}
		reply.Failed = true
	case strings.TrimSpace(answer.Answer) == "":
		reply.Message = domain.Message{Role: domain.RoleBot, Text: EmptyAnswer, Sources: answer.Sources}
	default:
		reply.Message = domain.Message{Role: domain.RoleBot, Text: answer.Answer, Sources: answer.Sources}
	}

	now := s.now()
	if conversationID != "" {
		if err := s.history.AppendMessages(ctx, conversationID, now, userMessage, reply.Message); err != nil {
			return nil, err
		}
	} else {
		conv := &domain.Conversation{
			ID:        s.newID(),
			Title:     conversationTitle(question),
			Messages:  []domain.Message{userMessage, reply.Message},
			Date:      now.Format("1/2/2006"),
			UpdatedAt: now,
		}
		if err := s.history.Upsert(ctx, conv); err != nil {
			return nil, err
		}
		reply.ConversationID = conv.ID
	}

	if err := s.history.Save(ctx); err != nil {
		log.Printf("[Chat] Failed to save history: %v", err)
	}

	return reply, nil
}

// History lists all conversations, most recent first
func (s *ChatService) History(ctx context.Context) ([]domain.Conversation, error) {
	return s.history.List(ctx)
}

// Conversation returns one conversation by ID
func (s *ChatService) Conversation(ctx context.Context, id string) (*domain.Conversation, error) {
	return s.history.Get(ctx, id)
}

// DeleteConversation removes one conversation and persists the change
func (s *ChatService) DeleteConversation(ctx context.Context, id string) error {
	if err := s.history.Delete(ctx, id); err != nil {
		return err
	}
	return s.history.Save(ctx)
}

// ClearHistory removes every conversation and persists the change
func (s *ChatService) ClearHistory(ctx context.Context) error {
	if err := s.history.Clear(ctx); err != nil {
		return err
	}
	return s.history.Save(ctx)
}

// conversationTitle is the first 35 characters of the question followed by "..."
func conversationTitle(question string) string {
	if utf8.RuneCountInString(question) <= titleLength {
		return question + "..."
	}
	runes := []rune(question)
	return string(runes[:titleLength]) + "..."
}
