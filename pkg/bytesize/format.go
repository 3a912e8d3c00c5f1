package bytesize

import (
	"math"
	"strconv"
)

// formatUnits are the display units, each 1024 times the previous one.
var formatUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Format renders a byte count with the largest unit whose value is at least 1,
// rounded to two decimals with trailing zeros dropped.
//
// Examples:
//
//	Format(0)       // "0 B"
//	Format(1024)    // "1 KB"
//	Format(1536)    // "1.5 KB"
//	Format(1 << 50) // "1024 TB"
func Format(n int64) string {
	if n == 0 {
		return "0 B"
	}
	if n < 0 {
		if n == math.MinInt64 {
			return "-" + formatFloat(-float64(n))
		}
		return "-" + Format(-n)
	}
	return formatFloat(float64(n))
}

func formatFloat(value float64) string {
	unit := 0
	for value >= 1024 && unit < len(formatUnits)-1 {
		value /= 1024
		unit++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + formatUnits[unit]
}
