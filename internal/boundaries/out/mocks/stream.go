package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/dockhand/internal/boundaries/out"
)

// MockStreamDialer is a mock implementation of out.StreamDialer.
type MockStreamDialer struct {
	mock.Mock
}

// NewMockStreamDialer creates a mock that asserts its expectations on cleanup.
func NewMockStreamDialer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStreamDialer {
	m := &MockStreamDialer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockStreamDialer_Expecter sets typed expectations.
type MockStreamDialer_Expecter struct {
	mock *mock.Mock
}

func (m *MockStreamDialer) EXPECT() *MockStreamDialer_Expecter {
	return &MockStreamDialer_Expecter{mock: &m.Mock}
}

func (m *MockStreamDialer) Dial(ctx context.Context, url string) (out.StreamConn, error) {
	args := m.Called(ctx, url)
	var r0 out.StreamConn
	if v := args.Get(0); v != nil {
		r0 = v.(out.StreamConn)
	}
	return r0, args.Error(1)
}

func (e *MockStreamDialer_Expecter) Dial(ctx any, url any) *mock.Call {
	return e.mock.On("Dial", ctx, url)
}

var _ out.StreamDialer = (*MockStreamDialer)(nil)
