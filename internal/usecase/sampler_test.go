package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ImpulseScan/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSampler(m *fakeMarket, now time.Time) *ChangeSampler {
	return NewChangeSampler(m, DefaultScanConfig(), WithSamplerClock(func() time.Time { return now }))
}

func TestSampleRequestsLastClosedCandle(t *testing.T) {
	m := &fakeMarket{candles: map[string][][]string{"BTC-USDT-SWAP": candle("100", "106")}}
	now := time.Date(2024, 5, 1, 12, 47, 3, 0, time.UTC)

	got, err := newTestSampler(m, now).Sample(context.Background(), "BTC-USDT-SWAP")
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)

	require.Len(t, m.calls, 1)
	assert.Equal(t, candleCall{
		instID: "BTC-USDT-SWAP",
		bar:    "30m",
		after:  time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC).UnixMilli(),
		limit:  1,
	}, m.calls[0])
}

func TestSampleNegativeChange(t *testing.T) {
	m := &fakeMarket{candles: map[string][][]string{"X": candle("50", "47")}}
	got, err := newTestSampler(m, time.Now()).Sample(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, -6.0, got)
}

func TestSampleErrorKinds(t *testing.T) {
	m := &fakeMarket{
		candles: map[string][][]string{
			"ZERO":  candle("0", "1"),
			"NEG":   candle("-1", "1"),
			"SHORT": {{"1", "2", "3"}},
			"JUNK":  candle("abc", "1"),
			"NOCLS": candle("1", "x"),
			"NOOPN": candle("", "1"),
		},
		candleErrs: map[string]error{"DOWN": errors.New("connection reset")},
	}
	s := newTestSampler(m, time.Now())

	cases := map[string]error{
		"DOWN":  models.ErrSampleFetch,
		"EMPTY": models.ErrSampleCompute,
		"ZERO":  models.ErrSampleCompute,
		"NEG":   models.ErrSampleCompute,
		"SHORT": models.ErrSampleFetch,
		"JUNK":  models.ErrSampleFetch,
		"NOCLS": models.ErrSampleFetch,
		"NOOPN": models.ErrSampleCompute,
	}
	for instID, want := range cases {
		t.Run(instID, func(t *testing.T) {
			_, err := s.Sample(context.Background(), instID)
			require.Error(t, err)
			assert.ErrorIs(t, err, want)

			var se *models.SampleError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, instID, se.InstID)
		})
	}
}
