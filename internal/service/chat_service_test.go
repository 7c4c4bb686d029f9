package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "mediai/backend/internal/errors"
	"mediai/backend/internal/llm"
	mock_llm "mediai/backend/internal/llm/mocks"
	"mediai/backend/internal/metrics"
	"mediai/backend/internal/model"
	"mediai/backend/internal/ratelimit"
	"mediai/backend/internal/repository"
	mock_repo "mediai/backend/internal/repository/mocks"
	"mediai/backend/internal/service"
)

type Mocks struct {
	repo      *mock_repo.MockRepository
	medical   *mock_llm.MockGenerator
	nutrition *mock_llm.MockGenerator
	limiter   *ratelimit.MemoryLimiter
	metrics   *metrics.Metrics
}

func setupChatService(t *testing.T) (*service.ChatService, Mocks) {
	mocks := Mocks{
		repo:      mock_repo.NewMockRepository(t),
		medical:   mock_llm.NewMockGenerator(t),
		nutrition: mock_llm.NewMockGenerator(t),
		limiter:   ratelimit.NewMemoryLimiter(5, 24*time.Hour),
		metrics:   metrics.NewMetrics(),
	}
	chatService := service.NewChatService(mocks.repo, mocks.medical, mocks.nutrition, mocks.limiter, mocks.metrics)
	return chatService, mocks
}

func ownedConversation(id, userID string) *model.Conversation {
	return &model.Conversation{ID: id, UserID: userID, Title: model.DefaultConversationTitle}
}

func TestChatService_CreateConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Blank title defaults to New Chat", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("CreateConversation", ctx, mock.MatchedBy(func(c *model.Conversation) bool {
			return c.UserID == "alice" && c.Title == model.DefaultConversationTitle && c.ID != ""
		})).Return(nil).Once()

		conv, err := chatService.CreateConversation(ctx, "alice", "   ")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultConversationTitle, conv.Title)
		assert.Equal(t, conv.CreatedAt, conv.UpdatedAt)
	})

	t.Run("Keeps explicit title", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("CreateConversation", ctx, mock.Anything).Return(nil).Once()

		conv, err := chatService.CreateConversation(ctx, "alice", "Cardiology notes")
		require.NoError(t, err)
		assert.Equal(t, "Cardiology notes", conv.Title)
	})

	t.Run("Failure - Repository error", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("CreateConversation", ctx, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := chatService.CreateConversation(ctx, "alice", "")
		assert.ErrorIs(t, err, app_errors.ErrInternal)
	})
}

func TestChatService_GetMessages(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		setupMock   func(m Mocks)
		expectedErr error
	}{
		{
			name: "Success",
			setupMock: func(m Mocks) {
				m.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "alice"), nil).Once()
				m.repo.On("ListMessages", ctx, "c1").Return([]model.Message{{ID: "m1"}}, nil).Once()
			},
		},
		{
			name: "Failure - Not found",
			setupMock: func(m Mocks) {
				m.repo.On("GetConversation", ctx, "c1").Return(nil, repository.ErrNotFound).Once()
			},
			expectedErr: app_errors.ErrNotFound,
		},
		{
			name: "Failure - Someone else's conversation",
			setupMock: func(m Mocks) {
				m.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "bob"), nil).Once()
			},
			expectedErr: app_errors.ErrPermission,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chatService, mocks := setupChatService(t)
			tc.setupMock(mocks)

			msgs, err := chatService.GetMessages(ctx, "alice", "c1")
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, msgs, 1)
		})
	}
}

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - stores trimmed message and reply", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "alice"), nil).Once()
		mocks.medical.On("GenerateReply", ctx, "What is metformin?").Return("A biguanide.").Once()
		mocks.repo.On("AppendExchange", ctx, mock.AnythingOfType("*model.Exchange")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*model.Exchange).Title = "What is metformin?"
			}).
			Return(nil).Once()

		ex, err := chatService.SendMessage(ctx, "alice", "c1", "  What is metformin?\n")
		require.NoError(t, err)

		assert.Equal(t, "What is metformin?", ex.UserMessage.Body)
		assert.True(t, ex.UserMessage.IsUserMessage)
		assert.Equal(t, "A biguanide.", ex.AssistantMessage.Body)
		assert.False(t, ex.AssistantMessage.IsUserMessage)
		assert.Equal(t, "c1", ex.AssistantMessage.ConversationID)
		assert.True(t, ex.AssistantMessage.CreatedAt.After(ex.UserMessage.CreatedAt))
		assert.Equal(t, "What is metformin?", ex.Title)
		assert.Equal(t, 1.0, testutil.ToFloat64(mocks.metrics.MessagesStoredTotal.WithLabelValues("assistant")))
	})

	t.Run("Fallback reply is what gets stored", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "alice"), nil).Once()
		mocks.medical.On("GenerateReply", ctx, "hello").Return(llm.FallbackNetwork).Once()
		mocks.repo.On("AppendExchange", ctx, mock.MatchedBy(func(ex *model.Exchange) bool {
			return ex.AssistantMessage.Body == llm.FallbackNetwork
		})).Return(nil).Once()

		ex, err := chatService.SendMessage(ctx, "alice", "c1", "hello")
		require.NoError(t, err)
		assert.Equal(t, llm.FallbackNetwork, ex.AssistantMessage.Body)
	})

	t.Run("Failure - Empty message appends nothing", func(t *testing.T) {
		chatService, _ := setupChatService(t)

		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := chatService.SendMessage(ctx, "alice", "c1", text)
			assert.ErrorIs(t, err, app_errors.ErrValidation)
		}
	})

	t.Run("Failure - Someone else's conversation", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "bob"), nil).Once()

		_, err := chatService.SendMessage(ctx, "alice", "c1", "hello")
		assert.ErrorIs(t, err, app_errors.ErrPermission)
	})

	t.Run("Failure - Transaction rolled back", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "alice"), nil).Once()
		mocks.medical.On("GenerateReply", ctx, "hello").Return("hi").Once()
		mocks.repo.On("AppendExchange", ctx, mock.Anything).Return(errors.New("database is locked")).Once()

		_, err := chatService.SendMessage(ctx, "alice", "c1", "hello")
		assert.ErrorIs(t, err, app_errors.ErrInternal)
		assert.Equal(t, 0.0, testutil.ToFloat64(mocks.metrics.MessagesStoredTotal.WithLabelValues("user")))
	})

	t.Run("Failure - Conversation deleted meanwhile", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "alice"), nil).Once()
		mocks.medical.On("GenerateReply", ctx, "hello").Return("hi").Once()
		mocks.repo.On("AppendExchange", ctx, mock.Anything).Return(repository.ErrNotFound).Once()

		_, err := chatService.SendMessage(ctx, "alice", "c1", "hello")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestChatService_SendMessage_SerializesPerConversation(t *testing.T) {
	ctx := context.Background()
	chatService, mocks := setupChatService(t)

	var inFlight, maxInFlight atomic.Int32
	mocks.repo.On("GetConversation", ctx, "c1").Return(ownedConversation("c1", "alice"), nil)
	mocks.medical.On("GenerateReply", ctx, mock.Anything).Return("reply")
	mocks.repo.On("AppendExchange", ctx, mock.Anything).
		Run(func(mock.Arguments) {
			n := inFlight.Add(1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
		}).
		Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := chatService.SendMessage(ctx, "alice", "c1", "hello")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	mocks.repo.AssertNumberOfCalls(t, "AppendExchange", 10)
}

func TestChatService_PublicReply(t *testing.T) {
	ctx := context.Background()

	t.Run("Sixth message is rejected", func(t *testing.T) {
		chatService, mocks := setupChatService(t)
		mocks.nutrition.On("GenerateReply", ctx, "How much protein?").Return("About 0.8 g/kg.").Times(5)

		for i := 0; i < 5; i++ {
			reply, err := chatService.PublicReply(ctx, "203.0.113.7", "How much protein?")
			require.NoError(t, err)
			assert.Equal(t, "About 0.8 g/kg.", reply)
		}

		_, err := chatService.PublicReply(ctx, "203.0.113.7", "How much protein?")
		assert.ErrorIs(t, err, app_errors.ErrRateLimited)
		assert.ErrorContains(t, err, service.RateLimitMessage)
		assert.Equal(t, 1.0, testutil.ToFloat64(mocks.metrics.RateLimitRejectedTotal))
	})

	t.Run("Empty message does not consume quota", func(t *testing.T) {
		chatService, mocks := setupChatService(t)

		_, err := chatService.PublicReply(ctx, "203.0.113.7", "  ")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
		assert.Equal(t, 0, mocks.limiter.Len())
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("connection refused")
}

func TestChatService_PublicReply_LimiterUnavailable(t *testing.T) {
	ctx := context.Background()
	nutrition := mock_llm.NewMockGenerator(t)
	nutrition.On("GenerateReply", ctx, "hi").Return("hello").Once()
	chatService := service.NewChatService(mock_repo.NewMockRepository(t), mock_llm.NewMockGenerator(t), nutrition, failingLimiter{}, nil)

	reply, err := chatService.PublicReply(ctx, "203.0.113.7", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}
