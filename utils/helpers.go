package utils

import "time"

const DefaultRange = "7d"

var summaryRanges = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

func IsValidRange(r string) bool {
	_, ok := summaryRanges[r]
	return ok
}

// ResolveRange maps a dashboard range to its duration. Unknown or empty ranges fall
// back to DefaultRange.
func ResolveRange(r string) (string, time.Duration) {
	if d, ok := summaryRanges[r]; ok {
		return r, d
	}
	return DefaultRange, summaryRanges[DefaultRange]
}
