// Package safeconv provides safe numeric conversions for pagination and path ids.
package safeconv

import (
	"math"
	"strconv"
)

// Int64ToInt32 converts int64 to int32, clamping to the int32 range.
func Int64ToInt32(v int64) int32 {
	return int32(max(math.MinInt32, min(v, math.MaxInt32)))
}

// IntToInt32 converts int to int32, clamping to the int32 range.
func IntToInt32(v int) int32 {
	return Int64ToInt32(int64(v))
}

// ParseID parses a positive integer id. Anything else yields ok=false.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseIntDefault parses s as an int, falling back to def on error.
func ParseIntDefault(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
