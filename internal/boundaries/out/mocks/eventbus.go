package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// MockEventBus is a mock implementation of out.EventBus.
type MockEventBus struct {
	mock.Mock
}

// NewMockEventBus creates a mock that asserts its expectations on cleanup.
func NewMockEventBus(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventBus {
	m := &MockEventBus{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockEventBus_Expecter sets typed expectations.
type MockEventBus_Expecter struct {
	mock *mock.Mock
}

func (m *MockEventBus) EXPECT() *MockEventBus_Expecter {
	return &MockEventBus_Expecter{mock: &m.Mock}
}

func (m *MockEventBus) Publish(eventType domain.EventType, payload any) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

func (e *MockEventBus_Expecter) Publish(eventType any, payload any) *mock.Call {
	return e.mock.On("Publish", eventType, payload)
}

func (m *MockEventBus) Subscribe(handler out.EventHandler) error {
	args := m.Called(handler)
	return args.Error(0)
}

func (e *MockEventBus_Expecter) Subscribe(handler any) *mock.Call {
	return e.mock.On("Subscribe", handler)
}

func (m *MockEventBus) Unsubscribe(handler out.EventHandler) error {
	args := m.Called(handler)
	return args.Error(0)
}

func (e *MockEventBus_Expecter) Unsubscribe(handler any) *mock.Call {
	return e.mock.On("Unsubscribe", handler)
}

func (m *MockEventBus) Start() error {
	args := m.Called()
	return args.Error(0)
}

func (e *MockEventBus_Expecter) Start() *mock.Call {
	return e.mock.On("Start")
}

func (m *MockEventBus) Stop() error {
	args := m.Called()
	return args.Error(0)
}

func (e *MockEventBus_Expecter) Stop() *mock.Call {
	return e.mock.On("Stop")
}

var _ out.EventBus = (*MockEventBus)(nil)
