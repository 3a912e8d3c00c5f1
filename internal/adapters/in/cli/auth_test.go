package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/boundaries/in/mocks"
	"github.com/bnema/dockhand/internal/domain"
)

func testSession() domain.Session {
	return domain.Session{
		Token:     "tok",
		UserID:    "u-1",
		Email:     "ada@example.com",
		Role:      domain.RoleUser,
		ExpiresAt: time.Date(2026, 11, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestReadCredentials(t *testing.T) {
	t.Run("prompts for missing email", func(t *testing.T) {
		var prompts bytes.Buffer
		p := &prompter{in: strings.NewReader("ada@example.com\nsecret\n"), out: &prompts}

		email, password, err := readCredentials(p, "", false)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", email)
		assert.Equal(t, "secret", password)
		assert.Contains(t, prompts.String(), "Email: ")
		assert.Contains(t, prompts.String(), "Password: ")
	})

	t.Run("keeps flag email", func(t *testing.T) {
		p := &prompter{in: strings.NewReader("secret\n"), out: &bytes.Buffer{}}

		email, password, err := readCredentials(p, " ada@example.com ", false)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", email)
		assert.Equal(t, "secret", password)
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		p := &prompter{in: strings.NewReader("secret\nother\n"), out: &bytes.Buffer{}}

		_, _, err := readCredentials(p, "ada@example.com", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "passwords do not match")
	})

	t.Run("fails on empty input", func(t *testing.T) {
		p := &prompter{in: strings.NewReader(""), out: &bytes.Buffer{}}

		_, _, err := readCredentials(p, "", false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no input for email")
	})

	t.Run("accepts last line without newline", func(t *testing.T) {
		p := &prompter{in: strings.NewReader("secret"), out: &bytes.Buffer{}}

		_, password, err := readCredentials(p, "ada@example.com", false)
		require.NoError(t, err)
		assert.Equal(t, "secret", password)
	})
}

func TestRunLogin(t *testing.T) {
	svc := mocks.NewMockConsoleService(t)
	svc.EXPECT().Login(mock.Anything, "ada@example.com", "secret").Return(testSession(), nil)

	var out bytes.Buffer
	err := runLogin(context.Background(), svc, "ada@example.com", "secret", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Logged in as ada@example.com (USER)")
}

func TestRunLogin_Failure(t *testing.T) {
	svc := mocks.NewMockConsoleService(t)
	failure := domain.ClassifiedError{Kind: domain.ErrorKindPermissionDenied, UserMessage: "Invalid credentials"}
	svc.EXPECT().Login(mock.Anything, "ada@example.com", "bad").Return(domain.Session{}, failure)

	var out bytes.Buffer
	err := runLogin(context.Background(), svc, "ada@example.com", "bad", &out)
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", errorMessage(err))
	assert.Empty(t, out.String())
}

func TestRunRegister(t *testing.T) {
	svc := mocks.NewMockConsoleService(t)
	svc.EXPECT().Register(mock.Anything, "ada@example.com", "secret").Return(nil)

	var out bytes.Buffer
	err := runRegister(context.Background(), svc, "ada@example.com", "secret", &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Account ada@example.com created")
	assert.Contains(t, out.String(), "dockhand login")
}

func TestRunLogout(t *testing.T) {
	svc := mocks.NewMockConsoleService(t)
	svc.EXPECT().Logout(mock.Anything).Return(nil)

	var out bytes.Buffer
	require.NoError(t, runLogout(context.Background(), svc, &out))
	assert.Contains(t, out.String(), "Logged out")
}

func TestRunLogout_Failure(t *testing.T) {
	svc := mocks.NewMockConsoleService(t)
	svc.EXPECT().Logout(mock.Anything).Return(errors.New("disk full"))

	var out bytes.Buffer
	err := runLogout(context.Background(), svc, &out)
	require.EqualError(t, err, "disk full")
}

func TestRunWhoami(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runWhoami(testSession(), outputTable, &out))

		text := out.String()
		assert.Contains(t, text, "ada@example.com")
		assert.Contains(t, text, "USER")
		assert.Contains(t, text, "u-1")
		assert.Contains(t, text, "Expires:")
	})

	t.Run("no expiry", func(t *testing.T) {
		session := testSession()
		session.ExpiresAt = time.Time{}

		var out bytes.Buffer
		require.NoError(t, runWhoami(session, outputTable, &out))
		assert.NotContains(t, out.String(), "Expires:")
	})

	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runWhoami(testSession(), outputJSON, &out))

		var got sessionView
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "u-1", got.UserID)
		assert.Equal(t, "ada@example.com", got.Email)
		assert.Equal(t, "USER", got.Role)
		require.NotNil(t, got.ExpiresAt)
		assert.True(t, got.ExpiresAt.Equal(testSession().ExpiresAt))
		assert.NotContains(t, out.String(), "tok")
	})

	t.Run("yaml", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runWhoami(testSession(), outputYAML, &out))
		assert.Contains(t, out.String(), "email: ada@example.com")
	})
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"classified", domain.ClassifiedError{Kind: domain.ErrorKindConflict, UserMessage: "Name already in use"}, "Name already in use"},
		{"not authenticated", domain.ErrNotAuthenticated, "Not logged in. Run 'dockhand login' first."},
		{"wrapped not authenticated", errors.Join(errors.New("restore"), domain.ErrNotAuthenticated), "Not logged in. Run 'dockhand login' first."},
		{"self delete", domain.ErrSelfDelete, "You cannot delete your own account."},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.err))
		})
	}
}
