package mailer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMailer 测试用
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
