package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseInt parses an integer element value.
// Returns 0 for empty, nil or invalid input.
func ParseInt(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseDecimal parses a monetary or price element value.
// Returns zero for empty, nil or invalid input.
func ParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseBool parses an xsd:boolean element value.
func ParseBool(s string) bool {
	switch strings.TrimSpace(s) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// ParseTimestamp parses an xsd:dateTime to microseconds since epoch.
// Returns 0 for empty or invalid input.
func ParseTimestamp(iso string) int64 {
	if iso == "" {
		return 0
	}

	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return 0
		}
	}

	return t.UnixMicro()
}

// NowMicro returns the current time in microseconds since epoch.
func NowMicro() int64 {
	return time.Now().UnixMicro()
}
