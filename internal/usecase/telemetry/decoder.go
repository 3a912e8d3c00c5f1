// Package telemetry decodes and normalizes the frames received on live resource channels.
package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/dockhand/internal/domain"
	"github.com/bnema/dockhand/pkg/bytesize"
)

// nanosPerCPUSecond is one full core's capacity per sampling interval.
// Percentages are relative to one core, so multi-core saturation reads above 100.
const nanosPerCPUSecond = 1e9

// errorTextPrefix marks a plain-text error frame sent before the backend closes the stream.
const errorTextPrefix = "[error]"

// BackendError is an error payload explicitly sent by the backend on a stats stream.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string {
	return "backend stream error: " + e.Message
}

// statsFrame is the wire shape of a stats frame. Pointers distinguish missing fields from zeros.
type statsFrame struct {
	CPU       *int64  `json:"cpu"`
	MemUsage  int64   `json:"memUsage"`
	MemLimit  int64   `json:"memLimit"`
	NetInput  int64   `json:"netInput"`
	NetOutput int64   `json:"netOutput"`
	Error     *string `json:"error"`
}

// DecodeStatsFrame decodes one stats frame.
// Error payloads, JSON {"error": ...} or "[error] ..." text, are returned as *BackendError.
// Anything else that cannot be decoded wraps domain.ErrMalformedFrame.
func DecodeStatsFrame(frame []byte, now time.Time) (domain.StatsSample, error) {
	trimmed := bytes.TrimSpace(frame)
	if len(trimmed) == 0 {
		return domain.StatsSample{}, fmt.Errorf("%w: empty frame", domain.ErrMalformedFrame)
	}

	if text := string(trimmed); strings.HasPrefix(text, errorTextPrefix) {
		return domain.StatsSample{}, &BackendError{Message: strings.TrimSpace(strings.TrimPrefix(text, errorTextPrefix))}
	}

	var f statsFrame
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return domain.StatsSample{}, fmt.Errorf("%w: %v", domain.ErrMalformedFrame, err)
	}

	if f.Error != nil {
		return domain.StatsSample{}, &BackendError{Message: *f.Error}
	}
	if f.CPU == nil {
		return domain.StatsSample{}, fmt.Errorf("%w: missing cpu field", domain.ErrMalformedFrame)
	}
	if *f.CPU < 0 || f.MemUsage < 0 || f.MemLimit < 0 || f.NetInput < 0 || f.NetOutput < 0 {
		return domain.StatsSample{}, fmt.Errorf("%w: negative counter", domain.ErrMalformedFrame)
	}

	return domain.StatsSample{
		CPUPercent:     CPUPercent(*f.CPU),
		MemUsedBytes:   f.MemUsage,
		MemLimitBytes:  f.MemLimit,
		NetInputBytes:  f.NetInput,
		NetOutputBytes: f.NetOutput,
		SampledAt:      now,
	}, nil
}

// DecodeLogFrame returns a logs frame verbatim. Log frames are never parsed.
func DecodeLogFrame(frame []byte) string {
	return string(frame)
}

// CPUPercent converts nanoseconds of CPU time per interval into a percentage
// of one core, rounded to two decimals.
func CPUPercent(nanos int64) float64 {
	percent := float64(nanos) / nanosPerCPUSecond * 100
	return math.Round(percent*100) / 100
}

// MemPercent returns used/limit*100. It reports false when the limit is zero
// (unbounded or unset) so callers can render an explicit unknown.
func MemPercent(used, limit int64) (float64, bool) {
	return domain.StatsSample{MemUsedBytes: used, MemLimitBytes: limit}.MemPercent()
}

// FormatCPU renders a CPU percentage with two decimals, e.g. "250.00%".
func FormatCPU(percent float64) string {
	return strconv.FormatFloat(percent, 'f', 2, 64) + "%"
}

// FormatMemPercent renders the memory percentage of a sample or "unknown".
func FormatMemPercent(s domain.StatsSample) string {
	p, ok := s.MemPercent()
	if !ok {
		return "unknown"
	}
	return strconv.FormatFloat(p, 'f', 2, 64) + "%"
}

// FormatMemory renders "used / limit", with "unlimited" for an unset limit.
func FormatMemory(s domain.StatsSample) string {
	limit := "unlimited"
	if s.MemLimitBytes > 0 {
		limit = bytesize.Format(s.MemLimitBytes)
	}
	return bytesize.Format(s.MemUsedBytes) + " / " + limit
}

// FormatNetwork renders "rx / tx".
func FormatNetwork(s domain.StatsSample) string {
	return bytesize.Format(s.NetInputBytes) + " / " + bytesize.Format(s.NetOutputBytes)
}
