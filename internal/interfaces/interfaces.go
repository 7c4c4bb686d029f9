package interfaces

import (
	"context"

	"mediai/backend/internal/model"
)

// This file defines the interfaces for our core services.
// Handlers depend on these interfaces rather than the concrete services so
// the API layer can be tested against mocks.

// ChatService defines the contract for conversations and the chat relay.
type ChatService interface {
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error)
	GetMessages(ctx context.Context, userID, conversationID string) ([]model.Message, error)
	SendMessage(ctx context.Context, userID, conversationID, text string) (*model.Exchange, error)
	PublicReply(ctx context.Context, clientID, text string) (string, error)
}

// UserService defines the contract for the signed-in user's own account.
type UserService interface {
	Me(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error)
}

// AdminService defines the contract for the admin dashboard.
type AdminService interface {
	ListUsers(ctx context.Context, actorID string) ([]model.User, error)
	SetUserActive(ctx context.Context, actorID, userID string, active bool) error
	ListTextbooks(ctx context.Context, actorID string) ([]model.Textbook, error)
}
