package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/dockhand/internal/boundaries/in"
	"github.com/bnema/dockhand/internal/domain"
)

// MockConsoleService is a mock implementation of in.ConsoleService.
type MockConsoleService struct {
	mock.Mock
}

// NewMockConsoleService creates a mock that asserts its expectations on cleanup.
func NewMockConsoleService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConsoleService {
	m := &MockConsoleService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockConsoleService_Expecter sets typed expectations.
type MockConsoleService_Expecter struct {
	mock *mock.Mock
}

func (m *MockConsoleService) EXPECT() *MockConsoleService_Expecter {
	return &MockConsoleService_Expecter{mock: &m.Mock}
}

func (m *MockConsoleService) Restore(ctx context.Context) (domain.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (e *MockConsoleService_Expecter) Restore(ctx any) *mock.Call {
	return e.mock.On("Restore", ctx)
}

func (m *MockConsoleService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (e *MockConsoleService_Expecter) Login(ctx, email, password any) *mock.Call {
	return e.mock.On("Login", ctx, email, password)
}

func (m *MockConsoleService) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (e *MockConsoleService_Expecter) Logout(ctx any) *mock.Call {
	return e.mock.On("Logout", ctx)
}

func (m *MockConsoleService) Register(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

func (e *MockConsoleService_Expecter) Register(ctx, email, password any) *mock.Call {
	return e.mock.On("Register", ctx, email, password)
}

func (m *MockConsoleService) Session() (domain.Session, bool) {
	args := m.Called()
	return args.Get(0).(domain.Session), args.Bool(1)
}

func (e *MockConsoleService_Expecter) Session() *mock.Call {
	return e.mock.On("Session")
}

func (m *MockConsoleService) Resources(ctx context.Context, ownerID string, refresh bool) ([]domain.Resource, error) {
	args := m.Called(ctx, ownerID, refresh)
	list, _ := args.Get(0).([]domain.Resource)
	return list, args.Error(1)
}

func (e *MockConsoleService_Expecter) Resources(ctx, ownerID, refresh any) *mock.Call {
	return e.mock.On("Resources", ctx, ownerID, refresh)
}

func (m *MockConsoleService) Resource(ctx context.Context, resourceID string) (domain.Resource, error) {
	args := m.Called(ctx, resourceID)
	return args.Get(0).(domain.Resource), args.Error(1)
}

func (e *MockConsoleService_Expecter) Resource(ctx, resourceID any) *mock.Call {
	return e.mock.On("Resource", ctx, resourceID)
}

func (m *MockConsoleService) Create(ctx context.Context, req domain.CreateResourceRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (e *MockConsoleService_Expecter) Create(ctx, req any) *mock.Call {
	return e.mock.On("Create", ctx, req)
}

func (m *MockConsoleService) RunAction(ctx context.Context, scope domain.ScopeKey, resourceID string, kind domain.ActionKind) error {
	return m.Called(ctx, scope, resourceID, kind).Error(0)
}

func (e *MockConsoleService_Expecter) RunAction(ctx, scope, resourceID, kind any) *mock.Call {
	return e.mock.On("RunAction", ctx, scope, resourceID, kind)
}

func (m *MockConsoleService) InProgress(resourceID string) (domain.ActionKind, bool) {
	args := m.Called(resourceID)
	return args.Get(0).(domain.ActionKind), args.Bool(1)
}

func (e *MockConsoleService_Expecter) InProgress(resourceID any) *mock.Call {
	return e.mock.On("InProgress", resourceID)
}

func (m *MockConsoleService) Locks() []domain.ActionLock {
	locks, _ := m.Called().Get(0).([]domain.ActionLock)
	return locks
}

func (e *MockConsoleService_Expecter) Locks() *mock.Call {
	return e.mock.On("Locks")
}

func (m *MockConsoleService) Users(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (e *MockConsoleService_Expecter) Users(ctx any) *mock.Call {
	return e.mock.On("Users", ctx)
}

func (m *MockConsoleService) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (e *MockConsoleService_Expecter) DeleteUser(ctx, userID any) *mock.Call {
	return e.mock.On("DeleteUser", ctx, userID)
}

func (m *MockConsoleService) ExpandUser(ctx context.Context, userID string) ([]domain.Resource, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Resource)
	return list, args.Error(1)
}

func (e *MockConsoleService_Expecter) ExpandUser(ctx, userID any) *mock.Call {
	return e.mock.On("ExpandUser", ctx, userID)
}

func (m *MockConsoleService) ReloadUser(ctx context.Context, userID string) ([]domain.Resource, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]domain.Resource)
	return list, args.Error(1)
}

func (e *MockConsoleService_Expecter) ReloadUser(ctx, userID any) *mock.Call {
	return e.mock.On("ReloadUser", ctx, userID)
}

func (m *MockConsoleService) CollapseUser(userID string) {
	m.Called(userID)
}

func (e *MockConsoleService_Expecter) CollapseUser(userID any) *mock.Call {
	return e.mock.On("CollapseUser", userID)
}

func (m *MockConsoleService) SystemOverview(ctx context.Context) (domain.SystemOverview, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SystemOverview), args.Error(1)
}

func (e *MockConsoleService_Expecter) SystemOverview(ctx any) *mock.Call {
	return e.mock.On("SystemOverview", ctx)
}

func (m *MockConsoleService) StreamURL(resourceID string, kind domain.StreamKind) (string, error) {
	args := m.Called(resourceID, kind)
	return args.String(0), args.Error(1)
}

func (e *MockConsoleService_Expecter) StreamURL(resourceID, kind any) *mock.Call {
	return e.mock.On("StreamURL", resourceID, kind)
}

func (m *MockConsoleService) NewView(ctx context.Context, hooks in.ViewHooks) in.LiveView {
	view, _ := m.Called(ctx, hooks).Get(0).(in.LiveView)
	return view
}

func (e *MockConsoleService_Expecter) NewView(ctx, hooks any) *mock.Call {
	return e.mock.On("NewView", ctx, hooks)
}

var _ in.ConsoleService = (*MockConsoleService)(nil)
