// Package bytesize parses and formats byte counts with 1024-based units.
package bytesize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse reads a size such as "1MB", "512 KB", "1.5GB" or "4096".
// A bare number is a byte count. Unit suffixes are case-insensitive and
// accept the K/KB/KiB spellings, all 1024-based.
func Parse(s string) (int64, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("empty size")
	}

	upper := strings.ToUpper(raw)
	end := len(upper)
	for end > 0 && upper[end-1] >= 'A' && upper[end-1] <= 'Z' {
		end--
	}
	number := strings.TrimSpace(upper[:end])
	suffix := strings.TrimSuffix(strings.TrimSuffix(upper[end:], "B"), "I")

	shift := 0
	if suffix != "" {
		shift = unitShift(suffix)
		if shift < 0 {
			return 0, fmt.Errorf("invalid size %q: unknown unit (use B, KB, MB, GB or TB)", raw)
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("invalid size %q", raw)
	}
	if value < 0 {
		return 0, fmt.Errorf("invalid size %q: negative", raw)
	}

	bytes := value * math.Pow(1024, float64(shift))
	if bytes >= math.MaxInt64 {
		return 0, fmt.Errorf("invalid size %q: too large", raw)
	}
	return int64(bytes), nil
}

// unitShift returns the power of 1024 of a unit letter, -1 when unknown.
// "B" alone has been trimmed to the empty suffix by the caller.
func unitShift(unit string) int {
	for i, u := range formatUnits[1:] {
		if unit == u[:1] {
			return i + 1
		}
	}
	return -1
}
