package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/boundaries/in/mocks"
	"github.com/bnema/dockhand/internal/domain"
)

func testResources() []domain.Resource {
	created := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Resource{
		{
			ID:        "0123456789abcdef0123",
			Name:      "web",
			Image:     "nginx:1.27",
			State:     domain.ResourceStateRunning,
			Status:    "Up 3 minutes",
			OwnerID:   "u-1",
			CreatedAt: created,
		},
		{
			ID:        "fedcba9876543210fedc",
			Name:      "worker",
			Image:     "busybox",
			State:     domain.ResourceStateExited,
			OwnerID:   "u-1",
			CreatedAt: created,
		},
	}
}

func TestRunPs(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().Resources(mock.Anything, "", false).Return(testResources(), nil)

		var out bytes.Buffer
		require.NoError(t, runPs(context.Background(), svc, psOptions{}, outputTable, &out))

		text := out.String()
		assert.Contains(t, text, "CONTAINER ID")
		assert.Contains(t, text, "0123456789ab")
		assert.NotContains(t, text, "0123456789abcdef")
		assert.Contains(t, text, "web")
		assert.Contains(t, text, "Up 3 minutes")
		assert.Contains(t, text, "exited")
	})

	t.Run("quiet prints full ids", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().Resources(mock.Anything, "", false).Return(testResources(), nil)

		var out bytes.Buffer
		require.NoError(t, runPs(context.Background(), svc, psOptions{Quiet: true}, outputTable, &out))
		assert.Equal(t, "0123456789abcdef0123\nfedcba9876543210fedc\n", out.String())
	})

	t.Run("other user", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().Resources(mock.Anything, "u-2", false).Return(nil, nil)

		var out bytes.Buffer
		require.NoError(t, runPs(context.Background(), svc, psOptions{UserID: "u-2"}, outputTable, &out))
		assert.Contains(t, out.String(), "No containers found")
	})

	t.Run("json", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().Resources(mock.Anything, "", false).Return(testResources(), nil)

		var out bytes.Buffer
		require.NoError(t, runPs(context.Background(), svc, psOptions{}, outputJSON, &out))

		var got []resourceView
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "0123456789abcdef0123", got[0].ID)
		assert.Equal(t, "running", got[0].State)
		assert.Equal(t, "exited", got[1].State)
	})

	t.Run("error", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		failure := domain.ClassifiedError{Kind: domain.ErrorKindNetworkUnavailable, UserMessage: "Failed to load containers: Network unavailable"}
		svc.EXPECT().Resources(mock.Anything, "", false).Return(nil, failure)

		var out bytes.Buffer
		err := runPs(context.Background(), svc, psOptions{}, outputTable, &out)
		require.ErrorIs(t, err, failure)
		assert.Empty(t, out.String())
	})
}

func TestRunInspect(t *testing.T) {
	r := testResources()[0]

	t.Run("table", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().Resource(mock.Anything, r.ID).Return(r, nil)

		var out bytes.Buffer
		require.NoError(t, runInspect(context.Background(), svc, r.ID, outputTable, &out))

		text := out.String()
		assert.Contains(t, text, "web")
		assert.Contains(t, text, r.ID)
		assert.Contains(t, text, "nginx:1.27")
		assert.Contains(t, text, "u-1")
	})

	t.Run("yaml", func(t *testing.T) {
		svc := mocks.NewMockConsoleService(t)
		svc.EXPECT().Resource(mock.Anything, r.ID).Return(r, nil)

		var out bytes.Buffer
		require.NoError(t, runInspect(context.Background(), svc, r.ID, outputYAML, &out))
		assert.Contains(t, out.String(), "name: web")
		assert.Contains(t, out.String(), "state: running")
	})
}

func TestRunCreate(t *testing.T) {
	req := domain.CreateResourceRequest{Name: "web", Image: "nginx", EnvVars: []string{"PORT=8080"}}
	svc := mocks.NewMockConsoleService(t)
	svc.EXPECT().Create(mock.Anything, req).Return(nil)

	var out bytes.Buffer
	require.NoError(t, runCreate(context.Background(), svc, req, &out))
	assert.Contains(t, out.String(), "Container web created")
}

func TestRunAction(t *testing.T) {
	id := "0123456789abcdef0123"

	tests := []struct {
		name    string
		ownerID string
		kind    domain.ActionKind
		scope   domain.ScopeKey
		want    string
	}{
		{"start own", "", domain.ActionStart, domain.ScopeKey{}, "Container 0123456789ab started"},
		{"stop own", "", domain.ActionStop, domain.ScopeKey{}, "Container 0123456789ab stopped"},
		{"restart other", "u-2", domain.ActionRestart, domain.OwnerScope("u-2"), "Container 0123456789ab restarted"},
		{"delete other", "u-2", domain.ActionDelete, domain.OwnerScope("u-2"), "Container 0123456789ab deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockConsoleService(t)
			svc.EXPECT().RunAction(mock.Anything, tt.scope, id, tt.kind).Return(nil)

			var out bytes.Buffer
			require.NoError(t, runAction(context.Background(), svc, tt.ownerID, id, tt.kind, &out))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestRunAction_Failure(t *testing.T) {
	svc := mocks.NewMockConsoleService(t)
	failure := domain.ClassifiedError{Kind: domain.ErrorKindConflict, UserMessage: "Failed to stop container: Container is not running"}
	svc.EXPECT().RunAction(mock.Anything, domain.ScopeKey{}, "abc", domain.ActionStop).Return(failure)

	var out bytes.Buffer
	err := runAction(context.Background(), svc, "", "abc", domain.ActionStop, &out)
	require.Error(t, err)
	assert.Equal(t, "Failed to stop container: Container is not running", errorMessage(err))
	assert.Empty(t, out.String())
}

func TestConfirmDelete_RequiresTerminal(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("y\n"))
	cmd.SetErr(&bytes.Buffer{})

	ok, err := confirmDelete(cmd, "Delete container abc?")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "--yes")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Start", capitalize("start"))
	assert.Equal(t, "", capitalize(""))
}
