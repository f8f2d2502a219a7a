package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jmokaya/mindscreen/internal/domain"
)

// MockCollaborator mocks the Collaborator interface
type MockCollaborator struct {
	mock.Mock
}

func (m *MockCollaborator) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCollaborator) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCollaborator) GenerateWording(ctx context.Context, req domain.WordingRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockCollaborator) ScoreAnswer(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScoreResult), args.Error(1)
}

// MockCrisisMessenger mocks the CrisisMessenger interface
type MockCrisisMessenger struct {
	mock.Mock
}

func (m *MockCrisisMessenger) CrisisMessage(countryHint string) string {
	args := m.Called(countryHint)
	return args.String(0)
}

func (m *MockCrisisMessenger) WarningMessage() string {
	args := m.Called()
	return args.String(0)
}
