package repository

import (
	"context"

	"mediai/backend/internal/model"
)

// Repository defines the conversation store used by the chat relay.
type Repository interface {
	CreateConversation(ctx context.Context, conv *model.Conversation) error
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)

	// AppendExchange stores the human message and the assistant reply of one
	// exchange atomically. It renames the conversation when the human message
	// is its first one, bumps updated_at, and sets exchange.Title to the
	// committed title. Nothing is persisted when it returns an error.
	AppendExchange(ctx context.Context, exchange *model.Exchange) error
}

// UserRepository defines account storage used by the profile and admin routes.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetUserActive(ctx context.Context, userID string, active bool) error
	UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error)
	ListTextbooks(ctx context.Context) ([]model.Textbook, error)
}
