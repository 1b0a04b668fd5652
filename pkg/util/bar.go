package util

import (
	"fmt"
	"strings"
	"time"
)

// OKX candle bars. Bars up to 4H open on the same boundaries in UTC and
// Hong Kong time; longer bars are only accepted in their "utc" form.
var bars = map[string]time.Duration{
	"1m":     time.Minute,
	"3m":     3 * time.Minute,
	"5m":     5 * time.Minute,
	"15m":    15 * time.Minute,
	"30m":    30 * time.Minute,
	"1H":     time.Hour,
	"2H":     2 * time.Hour,
	"4H":     4 * time.Hour,
	"6Hutc":  6 * time.Hour,
	"12Hutc": 12 * time.Hour,
	"1Dutc":  24 * time.Hour,
}

// ParseBar returns the duration of an exchange bar string such as "30m".
func ParseBar(bar string) (time.Duration, error) {
	if d, ok := bars[bar]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unsupported bar %q", bar)
}

// IsValidBar reports whether bar is a supported candle bar.
func IsValidBar(bar string) bool {
	_, ok := bars[bar]
	return ok
}

// BucketOpen returns the open time of the bucket of width d containing t, in UTC.
func BucketOpen(t time.Time, d time.Duration) time.Time {
	return t.UTC().Truncate(d)
}

// BarLabel turns "30m" into "30m" and "1Dutc" into "1D" for human facing text.
func BarLabel(bar string) string {
	return strings.TrimSuffix(bar, "utc")
}
