package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mediai/backend/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockChatService is a testify mock of interfaces.ChatService.
type MockChatService struct {
	mock.Mock
}

// NewMockChatService creates a MockChatService whose expectations are asserted on cleanup.
func NewMockChatService(t testingT) *MockChatService {
	m := &MockChatService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockChatService) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	args := m.Called(ctx, userID)
	var convs []model.Conversation
	if v := args.Get(0); v != nil {
		convs = v.([]model.Conversation)
	}
	return convs, args.Error(1)
}

func (m *MockChatService) CreateConversation(ctx context.Context, userID, title string) (*model.Conversation, error) {
	args := m.Called(ctx, userID, title)
	var conv *model.Conversation
	if v := args.Get(0); v != nil {
		conv = v.(*model.Conversation)
	}
	return conv, args.Error(1)
}

func (m *MockChatService) GetMessages(ctx context.Context, userID, conversationID string) ([]model.Message, error) {
	args := m.Called(ctx, userID, conversationID)
	var msgs []model.Message
	if v := args.Get(0); v != nil {
		msgs = v.([]model.Message)
	}
	return msgs, args.Error(1)
}

func (m *MockChatService) SendMessage(ctx context.Context, userID, conversationID, text string) (*model.Exchange, error) {
	args := m.Called(ctx, userID, conversationID, text)
	var ex *model.Exchange
	if v := args.Get(0); v != nil {
		ex = v.(*model.Exchange)
	}
	return ex, args.Error(1)
}

func (m *MockChatService) PublicReply(ctx context.Context, clientID, text string) (string, error) {
	args := m.Called(ctx, clientID, text)
	return args.String(0), args.Error(1)
}

// MockUserService is a testify mock of interfaces.UserService.
type MockUserService struct {
	mock.Mock
}

// NewMockUserService creates a MockUserService whose expectations are asserted on cleanup.
func NewMockUserService(t testingT) *MockUserService {
	m := &MockUserService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserService) Me(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	return user, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, update model.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, userID, update)
	var user *model.User
	if v := args.Get(0); v != nil {
		user = v.(*model.User)
	}
	return user, args.Error(1)
}

// MockAdminService is a testify mock of interfaces.AdminService.
type MockAdminService struct {
	mock.Mock
}

// NewMockAdminService creates a MockAdminService whose expectations are asserted on cleanup.
func NewMockAdminService(t testingT) *MockAdminService {
	m := &MockAdminService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAdminService) ListUsers(ctx context.Context, actorID string) ([]model.User, error) {
	args := m.Called(ctx, actorID)
	var users []model.User
	if v := args.Get(0); v != nil {
		users = v.([]model.User)
	}
	return users, args.Error(1)
}

func (m *MockAdminService) SetUserActive(ctx context.Context, actorID, userID string, active bool) error {
	args := m.Called(ctx, actorID, userID, active)
	return args.Error(0)
}

func (m *MockAdminService) ListTextbooks(ctx context.Context, actorID string) ([]model.Textbook, error) {
	args := m.Called(ctx, actorID)
	var textbooks []model.Textbook
	if v := args.Get(0); v != nil {
		textbooks = v.([]model.Textbook)
	}
	return textbooks, args.Error(1)
}
