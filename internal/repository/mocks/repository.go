package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediai/backend/internal/model"
)

// MockRepository is a testify mock of repository.Repository.
type MockRepository struct {
	mock.Mock
}

// NewMockRepository creates a MockRepository whose expectations are asserted on cleanup.
func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) CreateConversation(ctx context.Context, conv *model.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *MockRepository) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv *model.Conversation
	if v := args.Get(0); v != nil {
		conv = v.(*model.Conversation)
	}
	return conv, args.Error(1)
}

func (m *MockRepository) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	args := m.Called(ctx, userID)
	var convs []model.Conversation
	if v := args.Get(0); v != nil {
		convs = v.([]model.Conversation)
	}
	return convs, args.Error(1)
}

func (m *MockRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []model.Message
	if v := args.Get(0); v != nil {
		msgs = v.([]model.Message)
	}
	return msgs, args.Error(1)
}

func (m *MockRepository) AppendExchange(ctx context.Context, exchange *model.Exchange) error {
	args := m.Called(ctx, exchange)
	return args.Error(0)
}

// MockUserRepository is a testify mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a MockUserRepository whose expectations are asserted on cleanup.
func NewMockUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) GetUser(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	var users []model.User
	if v := args.Get(0); v != nil {
		users = v.([]model.User)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SetUserActive(ctx context.Context, userID string, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, userID, update)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListTextbooks(ctx context.Context) ([]model.Textbook, error) {
	args := m.Called(ctx)
	var textbooks []model.Textbook
	if v := args.Get(0); v != nil {
		textbooks = v.([]model.Textbook)
	}
	return textbooks, args.Error(1)
}
