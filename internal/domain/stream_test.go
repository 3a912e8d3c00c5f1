package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamKey(t *testing.T) {
	key, err := NewStreamKey("abc", StreamLogs)
	require.NoError(t, err)
	assert.Equal(t, StreamKey{ResourceID: "abc", Kind: StreamLogs}, key)
	assert.Equal(t, "logs/abc", key.String())

	_, err = NewStreamKey(" ", StreamStats)
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = NewStreamKey("abc", StreamKind("events"))
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestConnectionState(t *testing.T) {
	tests := []struct {
		state    ConnectionState
		terminal bool
		live     bool
	}{
		{StateConnecting, false, true},
		{StateOpen, false, true},
		{StateClosed, true, false},
		{StateErrored, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.Terminal())
			assert.Equal(t, tt.live, tt.state.Live())
		})
	}
}

func TestStatsSampleMemPercent(t *testing.T) {
	p, ok := StatsSample{MemUsedBytes: 256, MemLimitBytes: 1024}.MemPercent()
	require.True(t, ok)
	assert.InDelta(t, 25.0, p, 0.0001)

	_, ok = StatsSample{MemUsedBytes: 256}.MemPercent()
	assert.False(t, ok)
}

func TestLogChunkText(t *testing.T) {
	assert.Equal(t, "", LogChunk(nil).Text())
	assert.Equal(t, "a\nb\nc", LogChunk{"a\n", "b\n", "c"}.Text())
}

func TestClassifiedError(t *testing.T) {
	err := ClassifiedError{Kind: ErrorKindNetworkUnavailable, UserMessage: "Network unavailable", RawMessage: "dial tcp: timeout"}

	assert.Equal(t, "Network unavailable", err.Error())
	assert.True(t, err.Bannered())
	assert.Equal(t, "Failed to start container: Network unavailable", err.WithPrefix("Failed to start container: ").Error())
	assert.Equal(t, "Network unavailable", err.UserMessage)

	locked := ClassifiedError{Kind: ErrorKindAlreadyLocked}
	assert.False(t, locked.Bannered())
}

func TestScopeKey(t *testing.T) {
	assert.Equal(t, ScopeKey{Kind: ScopeOwner, ID: "u-1"}, OwnerScope("u-1"))
	assert.Equal(t, "owner:u-1", OwnerScope("u-1").String())
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	assert.False(t, Session{}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.True(t, Session{ExpiresAt: now.Add(-time.Minute)}.Expired(now))
}
