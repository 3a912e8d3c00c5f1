package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// MockSessionStore is a mock implementation of out.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

// NewMockSessionStore creates a mock that asserts its expectations on cleanup.
func NewMockSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSessionStore {
	m := &MockSessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockSessionStore_Expecter sets typed expectations.
type MockSessionStore_Expecter struct {
	mock *mock.Mock
}

func (m *MockSessionStore) EXPECT() *MockSessionStore_Expecter {
	return &MockSessionStore_Expecter{mock: &m.Mock}
}

func (m *MockSessionStore) Load(ctx context.Context) (domain.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (e *MockSessionStore_Expecter) Load(ctx any) *mock.Call {
	return e.mock.On("Load", ctx)
}

func (m *MockSessionStore) Save(ctx context.Context, session domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (e *MockSessionStore_Expecter) Save(ctx any, session any) *mock.Call {
	return e.mock.On("Save", ctx, session)
}

func (m *MockSessionStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (e *MockSessionStore_Expecter) Clear(ctx any) *mock.Call {
	return e.mock.On("Clear", ctx)
}

var _ out.SessionStore = (*MockSessionStore)(nil)
