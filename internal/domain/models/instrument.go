package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Instrument is one entry of the exchange's perpetual-swap catalog.
type Instrument struct {
	InstID    string `json:"instId"`
	SettleCcy string `json:"settleCcy"`
}

// Ticker carries the 24h statistics used for volume ranking. Values stay as
// the exchange's decimal strings until they are needed.
type Ticker struct {
	InstID    string `json:"instId"`
	Last      string `json:"last"`
	VolCcy24h string `json:"volCcy24h"`
}

// QuoteVolume returns the 24h volume expressed in the quote currency
// (volCcy24h is in the base coin for swaps).
func (t Ticker) QuoteVolume() (decimal.Decimal, error) {
	vol, err := decimal.NewFromString(t.VolCcy24h)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker %s volCcy24h %q: %w", t.InstID, t.VolCcy24h, err)
	}
	last, err := decimal.NewFromString(t.Last)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ticker %s last %q: %w", t.InstID, t.Last, err)
	}
	return vol.Mul(last), nil
}
