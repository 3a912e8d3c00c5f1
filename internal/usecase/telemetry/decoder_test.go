package telemetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/dockhand/internal/domain"
)

func TestDecodeStatsFrame(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("decodes a full frame", func(t *testing.T) {
		frame := []byte(`{"cpu": 2500000000, "memUsage": 1048576, "memLimit": 4194304, "netInput": 1024, "netOutput": 2048}`)

		sample, err := DecodeStatsFrame(frame, now)
		require.NoError(t, err)

		assert.InDelta(t, 250.00, sample.CPUPercent, 0.0001)
		assert.Equal(t, int64(1048576), sample.MemUsedBytes)
		assert.Equal(t, int64(4194304), sample.MemLimitBytes)
		assert.Equal(t, int64(1024), sample.NetInputBytes)
		assert.Equal(t, int64(2048), sample.NetOutputBytes)
		assert.Equal(t, now, sample.SampledAt)
	})

	t.Run("zero cpu is valid", func(t *testing.T) {
		sample, err := DecodeStatsFrame([]byte(`{"cpu":0,"memUsage":0,"memLimit":0,"netInput":0,"netOutput":0}`), now)
		require.NoError(t, err)
		assert.Zero(t, sample.CPUPercent)
	})

	t.Run("json error payload", func(t *testing.T) {
		_, err := DecodeStatsFrame([]byte(`{"error": "oom"}`), now)

		var backendErr *BackendError
		require.ErrorAs(t, err, &backendErr)
		assert.Equal(t, "oom", backendErr.Message)
		assert.False(t, errors.Is(err, domain.ErrMalformedFrame))
	})

	t.Run("text error payload", func(t *testing.T) {
		_, err := DecodeStatsFrame([]byte("[error] container is not running"), now)

		var backendErr *BackendError
		require.ErrorAs(t, err, &backendErr)
		assert.Equal(t, "container is not running", backendErr.Message)
	})

	malformed := map[string]string{
		"empty":       "   ",
		"not json":    "cpu=12",
		"truncated":   `{"cpu": 12`,
		"missing cpu": `{"memUsage": 1}`,
		"negative":    `{"cpu": -1}`,
		"wrong type":  `{"cpu": "fast"}`,
	}
	for name, frame := range malformed {
		t.Run("malformed "+name, func(t *testing.T) {
			_, err := DecodeStatsFrame([]byte(frame), now)
			assert.ErrorIs(t, err, domain.ErrMalformedFrame)
		})
	}
}

func TestCPUPercent(t *testing.T) {
	assert.Equal(t, 250.00, CPUPercent(2_500_000_000))
	assert.Equal(t, 50.0, CPUPercent(500_000_000))
	assert.Equal(t, 1.23, CPUPercent(12_345_678))
	assert.Equal(t, "250.00%", FormatCPU(CPUPercent(2_500_000_000)))
}

func TestMemPercent(t *testing.T) {
	p, ok := MemPercent(512, 1024)
	assert.True(t, ok)
	assert.Equal(t, 50.0, p)

	p, ok = MemPercent(512, 0)
	assert.False(t, ok)
	assert.Zero(t, p)

	assert.Equal(t, "unknown", FormatMemPercent(domain.StatsSample{MemUsedBytes: 10}))
	assert.Equal(t, "25.00%", FormatMemPercent(domain.StatsSample{MemUsedBytes: 1, MemLimitBytes: 4}))
}

func TestFormatMemoryAndNetwork(t *testing.T) {
	s := domain.StatsSample{MemUsedBytes: 1536, NetInputBytes: 1024, NetOutputBytes: 0}

	assert.Equal(t, "1.5 KB / unlimited", FormatMemory(s))
	assert.Equal(t, "1 KB / 0 B", FormatNetwork(s))

	s.MemLimitBytes = 1 << 30
	assert.Equal(t, "1.5 KB / 1 GB", FormatMemory(s))
}

func TestDecodeLogFrame(t *testing.T) {
	assert.Equal(t, "  raw line\r\n", DecodeLogFrame([]byte("  raw line\r\n")))
}
