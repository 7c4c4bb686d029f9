package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGenerator is a testify mock of llm.Generator.
type MockGenerator struct {
	mock.Mock
}

// NewMockGenerator creates a MockGenerator whose expectations are asserted on cleanup.
func NewMockGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGenerator {
	m := &MockGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGenerator) GenerateReply(ctx context.Context, userText string) string {
	args := m.Called(ctx, userText)
	return args.String(0)
}
