package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	app_errors "mediai/backend/internal/errors"
	"mediai/backend/internal/llm"
	"mediai/backend/internal/metrics"
	"mediai/backend/internal/model"
	"mediai/backend/internal/ratelimit"
	"mediai/backend/internal/repository"
)

// RateLimitMessage is returned to anonymous visitors who used up their quota.
const RateLimitMessage = "Message limit reached. Please login to continue."

// ChatService implements conversation management, the authenticated chat
// relay and the rate-limited public chat.
type ChatService struct {
	repo      repository.Repository
	medical   llm.Generator
	nutrition llm.Generator
	limiter   ratelimit.Limiter
	metrics   *metrics.Metrics
	locks     *keyedMutex
	now       func() time.Time
}

// NewChatService wires the chat service. medical answers signed-in users,
// nutrition answers the public chat. m may be nil.
func NewChatService(
	repo repository.Repository,
	medical llm.Generator,
	nutrition llm.Generator,
	limiter ratelimit.Limiter,
	m *metrics.Metrics,
) *ChatService {
	return &ChatService{
		repo:      repo,
		medical:   medical,
		nutrition: nutrition,
		limiter:   limiter,
		metrics:   m,
		locks:     newKeyedMutex(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListConversations returns the user's conversations, most recently active first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	convs, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list conversations: %v", app_errors.ErrInternal, err)
	}
	return convs, nil
}

// CreateConversation starts an empty conversation. A blank title becomes
// model.DefaultConversationTitle.
func (s *ChatService) CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultConversationTitle
	}
	now := s.now()
	conv := &model.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("%w: could not create conversation: %v", app_errors.ErrInternal, err)
	}
	log.Ctx(ctx).Info().Str("conversation_id", conv.ID).Str("user_id", userID).Msg("Conversation created")
	return conv, nil
}

// GetMessages returns the messages of a conversation owned by userID in
// chronological order.
func (s *ChatService) GetMessages(ctx context.Context, userID, conversationID string) ([]model.Message, error) {
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: could not list messages: %v", app_errors.ErrInternal, err)
	}
	return msgs, nil
}

// SendMessage stores text as a human message in the conversation together
// with the assistant's reply. The reply is generated before any write, and
// both rows are committed in one transaction. Sends to the same conversation
// are applied one after another.
func (s *ChatService) SendMessage(ctx context.Context, userID, conversationID, text string) (*model.Exchange, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return nil, fmt.Errorf("%w: Message is required", app_errors.ErrValidation)
	}
	if _, err := s.ownedConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: gave up waiting for conversation: %v", app_errors.ErrInternal, err)
	}
	defer unlock()

	sentAt := s.now()
	reply := s.medical.GenerateReply(ctx, body)

	exchange := &model.Exchange{
		UserMessage: model.Message{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			UserID:         userID,
			Body:           body,
			IsUserMessage:  true,
			CreatedAt:      sentAt,
		},
		AssistantMessage: model.Message{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			UserID:         userID,
			Body:           reply,
			IsUserMessage:  false,
			CreatedAt:      later(s.now(), sentAt),
		},
	}

	if err := s.repo.AppendExchange(ctx, exchange); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: Conversation not found", app_errors.ErrNotFound)
		}
		log.Ctx(ctx).Error().Err(err).Str("conversation_id", conversationID).Msg("Failed to store exchange")
		return nil, fmt.Errorf("%w: could not store message: %v", app_errors.ErrInternal, err)
	}

	if s.metrics != nil {
		s.metrics.RecordExchange()
	}
	log.Ctx(ctx).Info().
		Str("conversation_id", conversationID).
		Str("user_id", userID).
		Int("reply_length", len(reply)).
		Msg("Exchange stored")
	return exchange, nil
}

// PublicReply answers an anonymous visitor identified by clientID. Input is
// validated before the quota is charged. Nothing is persisted.
func (s *ChatService) PublicReply(ctx context.Context, clientID, text string) (string, error) {
	body := strings.TrimSpace(text)
	if body == "" {
		return "", fmt.Errorf("%w: Message is required", app_errors.ErrValidation)
	}

	decision, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		// Limiter errors fail open.
		log.Ctx(ctx).Error().Err(err).Str("client_id", clientID).Msg("Rate limiter unavailable, allowing message")
	} else if !decision.Allowed {
		if s.metrics != nil {
			s.metrics.RateLimitRejectedTotal.Inc()
		}
		log.Ctx(ctx).Info().Str("client_id", clientID).Msg("Public message limit reached")
		return "", fmt.Errorf("%w: %s", app_errors.ErrRateLimited, RateLimitMessage)
	}

	reply := s.nutrition.GenerateReply(ctx, body)
	if s.metrics != nil {
		s.metrics.PublicRepliesTotal.Inc()
	}
	return reply, nil
}

func (s *ChatService) ownedConversation(ctx context.Context, userID, conversationID string) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: Conversation not found", app_errors.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: could not load conversation: %v", app_errors.ErrInternal, err)
	}
	if conv.UserID != userID {
		return nil, fmt.Errorf("%w: Access denied", app_errors.ErrPermission)
	}
	return conv, nil
}

// later returns t, or a microsecond after floor when t does not come after it.
func later(t, floor time.Time) time.Time {
	if t.After(floor) {
		return t
	}
	return floor.Add(time.Microsecond)
}
