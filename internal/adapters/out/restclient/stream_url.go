package restclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bnema/dockhand/internal/domain"
)

// StreamPrefix is the path of the WebSocket endpoints below the server URL.
const StreamPrefix = "/yadoma/ws/containers"

// StreamURL builds ws(s)://host/yadoma/ws/containers/{id}/{kind}?token=...
// from the http(s) server URL.
func StreamURL(baseURL, resourceID string, kind domain.StreamKind, token string) (string, error) {
	key, err := domain.NewStreamKey(resourceID, kind)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server url %q: unsupported scheme", baseURL)
	}

	u = u.JoinPath(StreamPrefix, key.ResourceID, string(key.Kind))
	q := url.Values{}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
