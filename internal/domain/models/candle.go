package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Candle record positions: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm].
const (
	candleTs    = 0
	candleOpen  = 1
	candleClose = 4
)

var hundred = decimal.NewFromInt(100)

var (
	// ErrMalformedCandle is a record that cannot be read: too short or a
	// non-numeric price.
	ErrMalformedCandle = errors.New("malformed candle")
	// ErrMissingOpen is a well-formed record with an empty open price.
	ErrMissingOpen = errors.New("missing open price")
)

type CandleSample struct {
	InstID    string
	Timestamp time.Time
	Open      decimal.Decimal
	Close     decimal.Decimal
}

// ParseCandle reads open and close from a raw candle record. Only the
// timestamp, open and close positions are interpreted.
func ParseCandle(instID string, raw []string) (*CandleSample, error) {
	if len(raw) <= candleClose {
		return nil, fmt.Errorf("%w: %d fields, need at least %d", ErrMalformedCandle, len(raw), candleClose+1)
	}
	if raw[candleOpen] == "" {
		return nil, ErrMissingOpen
	}

	open, err := decimal.NewFromString(raw[candleOpen])
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %w", ErrMalformedCandle, raw[candleOpen], err)
	}
	closePx, err := decimal.NewFromString(raw[candleClose])
	if err != nil {
		return nil, fmt.Errorf("%w: close %q: %w", ErrMalformedCandle, raw[candleClose], err)
	}

	s := &CandleSample{InstID: instID, Open: open, Close: closePx}
	if ms, err := strconv.ParseInt(raw[candleTs], 10, 64); err == nil {
		s.Timestamp = time.UnixMilli(ms).UTC()
	}
	return s, nil
}

// Change is (close-open)/open*100. A non-positive open is an error.
func (c *CandleSample) Change() (decimal.Decimal, error) {
	if !c.Open.IsPositive() {
		return decimal.Zero, fmt.Errorf("non-positive open %s", c.Open)
	}
	return c.Close.Sub(c.Open).Div(c.Open).Mul(hundred), nil
}
