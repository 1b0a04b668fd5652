package usecase

import "time"

// ScanConfig is the immutable configuration of the scanner core.
type ScanConfig struct {
	InstType  string
	QuoteCcy  string
	Bar       string
	BarPeriod time.Duration
	TopN      int
	Threshold float64
	Delay     time.Duration
	Watchlist []string
	LockTTL   time.Duration
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		InstType:  "SWAP",
		QuoteCcy:  "USDT",
		Bar:       "30m",
		BarPeriod: 30 * time.Minute,
		TopN:      300,
		Threshold: 6.0,
		Delay:     200 * time.Millisecond,
		LockTTL:   30 * time.Minute,
	}
}
