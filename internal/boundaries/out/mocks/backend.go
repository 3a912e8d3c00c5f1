package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

// MockBackend is a mock implementation of out.Backend.
type MockBackend struct {
	mock.Mock
}

// NewMockBackend creates a mock that asserts its expectations on cleanup.
func NewMockBackend(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBackend {
	m := &MockBackend{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockBackend_Expecter sets typed expectations.
type MockBackend_Expecter struct {
	mock *mock.Mock
}

func (m *MockBackend) EXPECT() *MockBackend_Expecter {
	return &MockBackend_Expecter{mock: &m.Mock}
}

func (m *MockBackend) SetToken(token string) {
	m.Called(token)
}

func (e *MockBackend_Expecter) SetToken(token any) *mock.Call {
	return e.mock.On("SetToken", token)
}

func (m *MockBackend) Authenticate(ctx context.Context, email string, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (e *MockBackend_Expecter) Authenticate(ctx any, email any, password any) *mock.Call {
	return e.mock.On("Authenticate", ctx, email, password)
}

func (m *MockBackend) ValidateToken(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (e *MockBackend_Expecter) ValidateToken(ctx any) *mock.Call {
	return e.mock.On("ValidateToken", ctx)
}

func (m *MockBackend) Register(ctx context.Context, email string, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (e *MockBackend_Expecter) Register(ctx any, email any, password any) *mock.Call {
	return e.mock.On("Register", ctx, email, password)
}

func (m *MockBackend) CurrentUser(ctx context.Context) (domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.User), args.Error(1)
}

func (e *MockBackend_Expecter) CurrentUser(ctx any) *mock.Call {
	return e.mock.On("CurrentUser", ctx)
}

func (m *MockBackend) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	var r0 []domain.User
	if v := args.Get(0); v != nil {
		r0 = v.([]domain.User)
	}
	return r0, args.Error(1)
}

func (e *MockBackend_Expecter) ListUsers(ctx any) *mock.Call {
	return e.mock.On("ListUsers", ctx)
}

func (m *MockBackend) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (e *MockBackend_Expecter) DeleteUser(ctx any, userID any) *mock.Call {
	return e.mock.On("DeleteUser", ctx, userID)
}

func (m *MockBackend) ListResources(ctx context.Context, ownerID string) ([]domain.Resource, error) {
	args := m.Called(ctx, ownerID)
	var r0 []domain.Resource
	if v := args.Get(0); v != nil {
		r0 = v.([]domain.Resource)
	}
	return r0, args.Error(1)
}

func (e *MockBackend_Expecter) ListResources(ctx any, ownerID any) *mock.Call {
	return e.mock.On("ListResources", ctx, ownerID)
}

func (m *MockBackend) GetResource(ctx context.Context, resourceID string) (domain.Resource, error) {
	args := m.Called(ctx, resourceID)
	return args.Get(0).(domain.Resource), args.Error(1)
}

func (e *MockBackend_Expecter) GetResource(ctx any, resourceID any) *mock.Call {
	return e.mock.On("GetResource", ctx, resourceID)
}

func (m *MockBackend) CreateResource(ctx context.Context, req domain.CreateResourceRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (e *MockBackend_Expecter) CreateResource(ctx any, req any) *mock.Call {
	return e.mock.On("CreateResource", ctx, req)
}

func (m *MockBackend) StartResource(ctx context.Context, resourceID string) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (e *MockBackend_Expecter) StartResource(ctx any, resourceID any) *mock.Call {
	return e.mock.On("StartResource", ctx, resourceID)
}

func (m *MockBackend) StopResource(ctx context.Context, resourceID string) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (e *MockBackend_Expecter) StopResource(ctx any, resourceID any) *mock.Call {
	return e.mock.On("StopResource", ctx, resourceID)
}

func (m *MockBackend) RestartResource(ctx context.Context, resourceID string) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (e *MockBackend_Expecter) RestartResource(ctx any, resourceID any) *mock.Call {
	return e.mock.On("RestartResource", ctx, resourceID)
}

func (m *MockBackend) DeleteResource(ctx context.Context, resourceID string) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (e *MockBackend_Expecter) DeleteResource(ctx any, resourceID any) *mock.Call {
	return e.mock.On("DeleteResource", ctx, resourceID)
}

func (m *MockBackend) SystemInfo(ctx context.Context) (domain.SystemInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SystemInfo), args.Error(1)
}

func (e *MockBackend_Expecter) SystemInfo(ctx any) *mock.Call {
	return e.mock.On("SystemInfo", ctx)
}

func (m *MockBackend) DiskUsage(ctx context.Context) (domain.DiskUsage, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DiskUsage), args.Error(1)
}

func (e *MockBackend_Expecter) DiskUsage(ctx any) *mock.Call {
	return e.mock.On("DiskUsage", ctx)
}

func (m *MockBackend) StreamURL(resourceID string, kind domain.StreamKind, token string) (string, error) {
	args := m.Called(resourceID, kind, token)
	return args.String(0), args.Error(1)
}

func (e *MockBackend_Expecter) StreamURL(resourceID any, kind any, token any) *mock.Call {
	return e.mock.On("StreamURL", resourceID, kind, token)
}

var _ out.Backend = (*MockBackend)(nil)
