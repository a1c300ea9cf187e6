package services_test

import (
	"context"

	"github.com/agro-group/contact-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockLimiter mocks the SubmissionLimiter interface
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, identity string) bool {
	args := m.Called(ctx, identity)
	return args.Bool(0)
}

// MockVerifier mocks the TokenVerifier interface
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	args := m.Called(ctx, token, remoteIP)
	return args.Error(0)
}

// MockSender mocks the mailer.Sender interface
type MockSender struct {
	mock.Mock
	name string
}

func (m *MockSender) Send(ctx context.Context, p *models.SubmissionPayload) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockSender) Name() string {
	return m.name
}
