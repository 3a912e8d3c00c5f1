package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, zerowrap.Default())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "https", baseURL: "https://yadoma.example.com"},
		{name: "trailing slash", baseURL: "http://localhost:8080/"},
		{name: "missing scheme", baseURL: "localhost:8080", wantErr: true},
		{name: "websocket scheme", baseURL: "ws://localhost:8080", wantErr: true},
		{name: "missing host", baseURL: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL, zerowrap.Default())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClientAuthenticate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/yadoma/api/v1/authenticate", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"jwt-token"}`))
	})

	token, err := client.Authenticate(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}

func TestClientSendsBearerToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"email":"me@example.com","role":"ADMIN"}`))
	})
	client.SetToken("tok")

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)
	assert.True(t, user.IsAdmin())
	assert.Empty(t, user.ID)
}

func TestClientRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		call   func(c *Client) error
	}{
		{
			name: "register", method: http.MethodPost, path: "/yadoma/api/v1/user/create",
			call: func(c *Client) error { return c.Register(context.Background(), "a@b.c", "pw") },
		},
		{
			name: "delete user", method: http.MethodDelete, path: "/yadoma/api/v1/user/delete/u2",
			call: func(c *Client) error { return c.DeleteUser(context.Background(), "u2") },
		},
		{
			name: "create", method: http.MethodPost, path: "/yadoma/api/v1/container/create",
			call: func(c *Client) error {
				return c.CreateResource(context.Background(), domain.CreateResourceRequest{Name: "web", Image: "nginx"})
			},
		},
		{
			name: "start", method: http.MethodPost, path: "/yadoma/api/v1/container/start/c1",
			call: func(c *Client) error { return c.StartResource(context.Background(), "c1") },
		},
		{
			name: "stop", method: http.MethodPost, path: "/yadoma/api/v1/container/stop/c1",
			call: func(c *Client) error { return c.StopResource(context.Background(), "c1") },
		},
		{
			name: "restart", method: http.MethodPost, path: "/yadoma/api/v1/container/restart/c1",
			call: func(c *Client) error { return c.RestartResource(context.Background(), "c1") },
		},
		{
			name: "delete", method: http.MethodDelete, path: "/yadoma/api/v1/container/delete/c1",
			call: func(c *Client) error { return c.DeleteResource(context.Background(), "c1") },
		},
		{
			name: "validate", method: http.MethodGet, path: "/yadoma/api/v1/authenticate",
			call: func(c *Client) error { return c.ValidateToken(context.Background()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.method, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				if r.URL.Path == "/yadoma/api/v1/authenticate" {
					_, _ = w.Write([]byte(`{"valid":true}`))
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			assert.NoError(t, tt.call(client))
		})
	}
}

func TestClientCreateSendsEmptyEnvList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{}, body["envVars"])
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, client.CreateResource(context.Background(), domain.CreateResourceRequest{Name: "web", Image: "nginx"}))
}

func TestClientListResources(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/yadoma/api/v1/container/u1/all", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"0123456789abcdef","name":"web","createdAt":"2024-03-01T10:20:30.123456","status":"Up 3 minutes","state":"running"},
			{"id":"fedcba9876543210","name":"db","createdAt":"2024-03-01T10:20:30Z","status":"Exited (0)","state":"exited","userId":"u9"}
		]`))
	})

	list, err := client.ListResources(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, domain.ResourceStateRunning, list[0].State)
	assert.Equal(t, "u1", list[0].OwnerID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC), list[0].CreatedAt)

	assert.Equal(t, domain.ResourceStateExited, list[1].State)
	assert.Equal(t, "u9", list[1].OwnerID)
}

func TestClientSystem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/yadoma/api/v1/system/info":
			_, _ = w.Write([]byte(`{"name":"host","nCpu":8,"memTotal":16000,"containersRunning":2,"labels":["a=b"]}`))
		case "/yadoma/api/v1/system/disk-usage":
			_, _ = w.Write([]byte(`{"layersSize":2048,"images":[{"id":"sha256:1","repoTags":["nginx:latest"],"size":100,"containers":1}],"volumes":[{"name":"data","mountpoint":"/var/lib","size":5}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	info, err := client.SystemInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "host", info.Name)
	assert.Equal(t, 8, info.NCPU)
	assert.Equal(t, 2, info.ContainersRunning)

	disk, err := client.DiskUsage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2048), disk.LayersSize)
	require.Len(t, disk.Images, 1)
	assert.Equal(t, []string{"nginx:latest"}, disk.Images[0].RepoTags)
	require.Len(t, disk.Volumes, 1)
	assert.Empty(t, disk.Containers)
}

func TestClientErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantIs      error
	}{
		{
			name:        "unauthorized with message body",
			status:      http.StatusUnauthorized,
			body:        `{"timestamp":"2024-03-01T10:00:00","status":401,"message":"Bad credentials","code":"AUTH"}`,
			wantMessage: "Bad credentials",
			wantIs:      domain.ErrUnauthorized,
		},
		{
			name:        "forbidden",
			status:      http.StatusForbidden,
			body:        `{"message":"Access Denied"}`,
			wantMessage: "Access Denied",
			wantIs:      domain.ErrForbidden,
		},
		{
			name:        "not found with error field",
			status:      http.StatusNotFound,
			body:        `{"error":"container not found"}`,
			wantMessage: "container not found",
			wantIs:      domain.ErrResourceNotFound,
		},
		{
			name:        "plain text body",
			status:      http.StatusInternalServerError,
			body:        "Error response from daemon: Conflict",
			wantMessage: "Error response from daemon: Conflict",
		},
		{
			name:        "empty body",
			status:      http.StatusBadGateway,
			wantMessage: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.StartResource(context.Background(), "c1")

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.BackendMessage())
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.NoError(t, errors.Unwrap(err))
			}
		})
	}
}

func TestClientDeleteUnknownUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/yadoma/api/v1/user/delete/u404", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"User not found"}`))
	})

	err := client.DeleteUser(context.Background(), "u404")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "User not found", apiErr.BackendMessage())
}

func TestClientValidateTokenRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"valid":false}`))
	})

	err := client.ValidateToken(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestClientHonorsContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.ListUsers(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStreamURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		id      string
		kind    domain.StreamKind
		token   string
		want    string
		wantErr bool
	}{
		{
			name: "https becomes wss", base: "https://yadoma.example.com", id: "abc", kind: domain.StreamStats, token: "t",
			want: "wss://yadoma.example.com/yadoma/ws/containers/abc/stats?token=t",
		},
		{
			name: "http becomes ws and keeps the port", base: "http://localhost:8080/", id: "abc", kind: domain.StreamLogs, token: "t",
			want: "ws://localhost:8080/yadoma/ws/containers/abc/logs?token=t",
		},
		{
			name: "token is escaped", base: "http://h", id: "abc", kind: domain.StreamLogs, token: "a b+c/=",
			want: "ws://h/yadoma/ws/containers/abc/logs?token=a+b%2Bc%2F%3D",
		},
		{
			name: "path prefix is kept", base: "https://h/console", id: "abc", kind: domain.StreamStats, token: "t",
			want: "wss://h/console/yadoma/ws/containers/abc/stats?token=t",
		},
		{name: "empty id", base: "http://h", kind: domain.StreamLogs, wantErr: true},
		{name: "unknown kind", base: "http://h", id: "abc", kind: "events", wantErr: true},
		{name: "unsupported scheme", base: "ftp://h", id: "abc", kind: domain.StreamLogs, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StreamURL(tt.base, tt.id, tt.kind, tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTime(t *testing.T) {
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), parseTime("2024-01-02T03:04:05"))
	assert.Equal(t, 2024, parseTime("2024-01-02T03:04:05+02:00").Year())
}
