package out

import (
	"context"
	"fmt"
)

// CloseNormal is the WebSocket status code of a normal closure.
const CloseNormal = 1000

// StreamDialer defines the contract for opening a server-push stream.
type StreamDialer interface {
	// Dial connects to url. It returns once the connection is established.
	Dial(ctx context.Context, url string) (StreamConn, error)
}

// StreamConn is one established stream connection.
type StreamConn interface {
	// ReadFrame blocks until the next frame arrives. A remote close is
	// reported as *CloseError; any other error is a transport failure.
	ReadFrame() ([]byte, error)

	// Close releases the connection. It must be safe to call more than once.
	Close() error
}

// CloseError reports that the remote end closed the stream.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("stream closed (code: %d)", e.Code)
	}
	return fmt.Sprintf("stream closed (code: %d, reason: %s)", e.Code, e.Reason)
}

// Normal reports whether the close was a normal closure.
func (e *CloseError) Normal() bool {
	return e.Code == CloseNormal
}
