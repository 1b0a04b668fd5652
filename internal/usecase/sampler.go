package usecase

import (
	"context"
	"errors"
	"time"

	"ImpulseScan/internal/domain/models"
	drepo "ImpulseScan/internal/domain/repository"
	"ImpulseScan/pkg/util"
)

// ChangeSampler measures the percent change of the last closed candle.
type ChangeSampler struct {
	market drepo.MarketData
	bar    string
	period time.Duration
	now    func() time.Time
}

type SamplerOption func(*ChangeSampler)

func WithSamplerClock(now func() time.Time) SamplerOption {
	return func(s *ChangeSampler) { s.now = now }
}

func NewChangeSampler(market drepo.MarketData, cfg ScanConfig, opts ...SamplerOption) *ChangeSampler {
	s := &ChangeSampler{
		market: market,
		bar:    cfg.Bar,
		period: cfg.BarPeriod,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sample returns (close-open)/open*100 for the most recent closed candle of
// instID. Errors are *models.SampleError: ErrSampleFetch when the candle
// cannot be fetched or read, ErrSampleCompute when there is no candle or
// its open price is missing or not positive.
func (s *ChangeSampler) Sample(ctx context.Context, instID string) (float64, error) {
	// candles strictly older than the open of the forming bucket are closed
	after := util.BucketOpen(s.now(), s.period).UnixMilli()

	data, err := s.market.Candles(ctx, instID, s.bar, after, 1)
	if err != nil {
		return 0, models.NewFetchError(instID, err)
	}
	if len(data) == 0 {
		return 0, models.NewComputeError(instID, errors.New("no closed candle returned"))
	}

	candle, err := models.ParseCandle(instID, data[0])
	if err != nil {
		if errors.Is(err, models.ErrMissingOpen) {
			return 0, models.NewComputeError(instID, err)
		}
		return 0, models.NewFetchError(instID, err)
	}
	change, err := candle.Change()
	if err != nil {
		return 0, models.NewComputeError(instID, err)
	}

	pct, _ := change.Float64()
	return pct, nil
}
