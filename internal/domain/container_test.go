package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceState(t *testing.T) {
	tests := []struct {
		input    string
		expected ResourceState
	}{
		{"running", ResourceStateRunning},
		{"  Running ", ResourceStateRunning},
		{"created", ResourceStateStopped},
		{"stopped", ResourceStateStopped},
		{"paused", ResourceStatePaused},
		{"exited", ResourceStateExited},
		{"dead", ResourceStateExited},
		{"restarting", ResourceStateUnknown},
		{"", ResourceStateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseResourceState(tt.input))
		})
	}
}

func TestResourceSeverity(t *testing.T) {
	tests := []struct {
		name     string
		resource Resource
		expected Severity
	}{
		{"up status wins", Resource{State: ResourceStateUnknown, Status: "Up 3 minutes"}, SeveritySuccess},
		{"running", Resource{State: ResourceStateRunning}, SeveritySuccess},
		{"stopped", Resource{State: ResourceStateStopped}, SeverityError},
		{"exited", Resource{State: ResourceStateExited, Status: "Exited (0) 2 hours ago"}, SeverityError},
		{"paused", Resource{State: ResourceStatePaused}, SeverityWarning},
		{"unknown", Resource{State: ResourceStateUnknown}, SeverityDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.Severity())
		})
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", ShortID("0123456789abcdef"))
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "0123456789ab", Resource{ID: "0123456789abcdef"}.ShortID())
}

func TestCreateResourceRequest_NormalizeAndValidate(t *testing.T) {
	req := CreateResourceRequest{
		Name:    "  web ",
		Image:   " nginx:1.27 ",
		EnvVars: []string{" PORT=8080 ", "", "   ", "MODE=prod"},
	}.Normalize()

	assert.Equal(t, "web", req.Name)
	assert.Equal(t, "nginx:1.27", req.Image)
	assert.Equal(t, []string{"PORT=8080", "MODE=prod"}, req.EnvVars)
	require.NoError(t, req.Validate())
}

func TestCreateResourceRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateResourceRequest
		wantErr string
	}{
		{"blank name", CreateResourceRequest{Image: "nginx"}, "name cannot be blank"},
		{"blank image", CreateResourceRequest{Name: "web"}, "image cannot be blank"},
		{"env without equals", CreateResourceRequest{Name: "web", Image: "nginx", EnvVars: []string{"PORT"}}, `"PORT" must be KEY=VALUE`},
		{"env without key", CreateResourceRequest{Name: "web", Image: "nginx", EnvVars: []string{"=1"}}, `"=1" must be KEY=VALUE`},
		{"empty value allowed", CreateResourceRequest{Name: "web", Image: "nginx", EnvVars: []string{"DEBUG="}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestActionKind(t *testing.T) {
	assert.True(t, ActionStart.Valid())
	assert.True(t, ActionLoadChildren.Valid())
	assert.False(t, ActionKind("pause").Valid())
	assert.Equal(t, "delete", ActionDelete.Verb())
	assert.Equal(t, "load", ActionLoadChildren.Verb())
}

func TestSession(t *testing.T) {
	assert.False(t, Session{}.Valid())
	assert.True(t, Session{Token: "t"}.Valid())
	assert.True(t, Session{Role: RoleAdmin}.IsAdmin())
	assert.False(t, User{Role: RoleUser}.IsAdmin())
}
