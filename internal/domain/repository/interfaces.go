package repository

import (
	"context"

	"ImpulseScan/internal/domain/models"
)

// MarketData is the read-only slice of the exchange REST API the scanner needs.
type MarketData interface {
	Instruments(ctx context.Context, instType string) ([]models.Instrument, error)
	Tickers(ctx context.Context, instType string) ([]models.Ticker, error)
	// Candles returns raw candle records for instID older than after.
	Candles(ctx context.Context, instID, bar string, after int64, limit int) ([][]string, error)
}

// Notifier delivers the aggregated alert of a pass.
type Notifier interface {
	Notify(ctx context.Context, alert *models.Alert) error
}

type Metrics interface {
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordChange(instID string, pct float64)
	RecordImpulse(instID string)
	RecordPass(attempted, impulses, errors int, seconds float64)
	RecordNotification(channel string, err error)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordError(string)                {}
func (NopMetrics) RecordLatency(string, float64)     {}
func (NopMetrics) RecordChange(string, float64)      {}
func (NopMetrics) RecordImpulse(string)              {}
func (NopMetrics) RecordPass(int, int, int, float64) {}
func (NopMetrics) RecordNotification(string, error)  {}
