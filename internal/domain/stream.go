package domain

import (
	"fmt"
	"strings"
	"time"
)

// StreamKind is the kind of live data a channel carries.
type StreamKind string

const (
	StreamLogs  StreamKind = "logs"
	StreamStats StreamKind = "stats"
)

// Valid reports whether k is a known stream kind.
func (k StreamKind) Valid() bool {
	return k == StreamLogs || k == StreamStats
}

// StreamKey identifies a channel. At most one live channel exists per key.
type StreamKey struct {
	ResourceID string
	Kind       StreamKind
}

// NewStreamKey builds a key, rejecting empty ids and unknown kinds.
func NewStreamKey(resourceID string, kind StreamKind) (StreamKey, error) {
	if strings.TrimSpace(resourceID) == "" {
		return StreamKey{}, fmt.Errorf("%w: resource id is required", ErrInvalidRequest)
	}
	if !kind.Valid() {
		return StreamKey{}, fmt.Errorf("%w: unknown stream kind %q", ErrInvalidRequest, kind)
	}
	return StreamKey{ResourceID: resourceID, Kind: kind}, nil
}

func (k StreamKey) String() string {
	return string(k.Kind) + "/" + k.ResourceID
}

// ConnectionState is the lifecycle state of a channel.
type ConnectionState string

const (
	StateConnecting ConnectionState = "connecting"
	StateOpen       ConnectionState = "open"
	StateClosed     ConnectionState = "closed"
	StateErrored    ConnectionState = "errored"
)

// Terminal reports whether no further transitions can happen from s.
func (s ConnectionState) Terminal() bool {
	return s == StateClosed || s == StateErrored
}

// Live reports whether s counts towards the one-channel-per-key limit.
func (s ConnectionState) Live() bool {
	return s == StateConnecting || s == StateOpen
}

// StreamChannel is a read-only snapshot of a channel.
type StreamChannel struct {
	Key      StreamKey
	State    ConnectionState
	OpenedAt time.Time
}

// StatsSample is one decoded stats frame. Only the latest sample per channel is retained.
type StatsSample struct {
	CPUPercent     float64
	MemUsedBytes   int64
	MemLimitBytes  int64
	NetInputBytes  int64
	NetOutputBytes int64
	SampledAt      time.Time
}

// MemPercent returns used/limit as a percentage.
// It reports false when the limit is unset, in which case the value is unknown.
func (s StatsSample) MemPercent() (float64, bool) {
	if s.MemLimitBytes <= 0 {
		return 0, false
	}
	return float64(s.MemUsedBytes) / float64(s.MemLimitBytes) * 100, true
}

// LogChunk is the ordered, append-only sequence of text fragments received on a logs channel.
type LogChunk []string

// Text concatenates the fragments in arrival order.
func (c LogChunk) Text() string {
	return strings.Join(c, "")
}
