// Package duration parses configuration durations.
package duration

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Day  = 24 * time.Hour
	Week = 7 * Day
)

// longUnits are the suffixes time.ParseDuration does not know about.
var longUnits = map[byte]time.Duration{
	'd': Day,
	'w': Week,
}

// Parse reads a duration such as "30s", "1h30m", "2d" or "1w2d12h".
// Go duration units are accepted alongside d (days) and w (weeks), which
// may only lead the expression. "0" is zero and means disabled.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0, fmt.Errorf("empty duration")
	case "0":
		return 0, nil
	}

	var total time.Duration
	rest := s
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 || i == len(rest) {
			break
		}
		unit, ok := longUnits[rest[i]]
		if !ok {
			break
		}
		n, err := strconv.ParseInt(rest[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
		rest = rest[i+1:]
	}

	if rest == "" {
		return total, nil
	}
	d, err := time.ParseDuration(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q (units: ms, s, m, h, d, w)", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q: negative", s)
	}
	return total + d, nil
}
