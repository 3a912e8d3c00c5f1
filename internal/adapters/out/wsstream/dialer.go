// Package wsstream implements out.StreamDialer over WebSocket.
package wsstream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/gorilla/websocket"

	"github.com/bnema/dockhand/internal/boundaries/out"
	"github.com/bnema/dockhand/internal/domain"
)

const (
	// DefaultReadLimit bounds the size of one frame.
	DefaultReadLimit int64 = 1 << 20

	defaultHandshakeTimeout = 10 * time.Second
	closeWriteTimeout       = time.Second
)

// Dialer opens WebSocket stream connections.
type Dialer struct {
	dialer    *websocket.Dialer
	readLimit int64
	log       zerowrap.Logger
}

// Option configures a Dialer.
type Option func(*Dialer)

// WithReadLimit sets the maximum frame size in bytes.
func WithReadLimit(limit int64) Option {
	return func(d *Dialer) {
		if limit > 0 {
			d.readLimit = limit
		}
	}
}

// WithHandshakeTimeout sets the opening handshake timeout.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(d *Dialer) {
		if timeout > 0 {
			d.dialer.HandshakeTimeout = timeout
		}
	}
}

// WithInsecureTLS disables certificate verification for wss URLs.
func WithInsecureTLS() Option {
	return func(d *Dialer) {
		d.dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for self-signed dev servers
	}
}

// NewDialer creates a WebSocket dialer.
func NewDialer(log zerowrap.Logger, opts ...Option) *Dialer {
	d := &Dialer{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
		readLimit: DefaultReadLimit,
		log:       log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dial connects to url and returns once the handshake completed.
func (d *Dialer) Dial(ctx context.Context, url string) (out.StreamConn, error) {
	ws, resp, err := d.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, handshakeError(resp.StatusCode, err)
		}
		return nil, err
	}

	ws.SetReadLimit(d.readLimit)

	d.log.Debug().
		Str(zerowrap.FieldLayer, "adapter").
		Str(zerowrap.FieldAdapter, "wsstream").
		Str("host", ws.RemoteAddr().String()).
		Msg("stream connected")

	return &conn{ws: ws}, nil
}

func handshakeError(status int, err error) error {
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("handshake rejected (HTTP %d): %w", status, domain.ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("handshake rejected (HTTP %d): %w", status, domain.ErrForbidden)
	case http.StatusNotFound:
		return fmt.Errorf("handshake rejected (HTTP %d): %w", status, domain.ErrResourceNotFound)
	}
	return fmt.Errorf("handshake rejected (HTTP %d): %w", status, err)
}

// conn adapts a websocket connection to out.StreamConn.
type conn struct {
	ws        *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// ReadFrame returns the payload of the next text or binary message.
func (c *conn) ReadFrame() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	if err != nil {
		var ce *websocket.CloseError
		if errors.As(err, &ce) {
			return nil, &out.CloseError{Code: ce.Code, Reason: ce.Text}
		}
		return nil, err
	}
	return data, nil
}

// Close sends a normal closure and releases the connection.
func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteTimeout))
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

var _ out.StreamDialer = (*Dialer)(nil)
