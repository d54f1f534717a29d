package mocks

import (
	"context"

	"assetvault/internal/workflow"

	"github.com/stretchr/testify/mock"
)

type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) CurrentSession(ctx context.Context) (*workflow.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Session), args.Error(1)
}

type MockCameraSource struct {
	mock.Mock
}

func (m *MockCameraSource) Open(ctx context.Context) (workflow.Stream, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(workflow.Stream), args.Error(1)
}

type MockStream struct {
	mock.Mock
}

func (m *MockStream) Capture(ctx context.Context) (*workflow.Frame, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Frame), args.Error(1)
}

func (m *MockStream) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) UploadAsset(ctx context.Context, token string, req workflow.UploadRequest) error {
	args := m.Called(ctx, token, req)
	return args.Error(0)
}

func (m *MockAPIClient) AnalyzeImage(ctx context.Context, token string, imageDataURI string) (*workflow.Analysis, error) {
	args := m.Called(ctx, token, imageDataURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.Analysis), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(title, message string) {
	m.Called(title, message)
}

func (m *MockNotifier) Error(title, message string) {
	m.Called(title, message)
}

type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) RedirectToAuth() {
	m.Called()
}

func (m *MockNavigator) NavigateHome() {
	m.Called()
}
