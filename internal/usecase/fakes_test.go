package usecase

import (
	"context"
	"errors"
	"sync"

	"ImpulseScan/internal/domain/models"
)

type candleCall struct {
	instID string
	bar    string
	after  int64
	limit  int
}

type fakeMarket struct {
	mu sync.Mutex

	instruments []models.Instrument
	tickers     []models.Ticker
	instErr     error
	tickErr     error

	candles    map[string][][]string
	candleErrs map[string]error
	calls      []candleCall
}

func (f *fakeMarket) Instruments(context.Context, string) ([]models.Instrument, error) {
	return f.instruments, f.instErr
}

func (f *fakeMarket) Tickers(context.Context, string) ([]models.Ticker, error) {
	return f.tickers, f.tickErr
}

func (f *fakeMarket) Candles(_ context.Context, instID, bar string, after int64, limit int) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, candleCall{instID, bar, after, limit})
	if err := f.candleErrs[instID]; err != nil {
		return nil, err
	}
	return f.candles[instID], nil
}

func candle(open, close string) [][]string {
	return [][]string{{"1700000000000", open, "0", "0", close, "0", "0", "0", "1"}}
}

type fakeResolver struct {
	universe []string
	err      error
}

func (f fakeResolver) Resolve(context.Context) ([]string, error) { return f.universe, f.err }

// stubSampler returns canned changes; unknown IDs fail with a fetch error.
type stubSampler struct {
	mu      sync.Mutex
	changes map[string]float64
	errs    map[string]error
	order   []string
	hook    func(instID string)
}

func (s *stubSampler) Sample(_ context.Context, instID string) (float64, error) {
	s.mu.Lock()
	s.order = append(s.order, instID)
	hook := s.hook
	s.mu.Unlock()
	if hook != nil {
		hook(instID)
	}
	if err := s.errs[instID]; err != nil {
		return 0, err
	}
	if c, ok := s.changes[instID]; ok {
		return c, nil
	}
	return 0, models.NewFetchError(instID, errors.New("not found"))
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []*models.Alert
	err    error
}

func (f *fakeNotifier) Notify(_ context.Context, a *models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

type recordingMetrics struct {
	mu       sync.Mutex
	errors   map[string]int
	impulses int
	passes   int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{errors: map[string]int{}}
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors[kind]++
	m.mu.Unlock()
}
func (m *recordingMetrics) RecordLatency(string, float64) {}
func (m *recordingMetrics) RecordChange(string, float64)  {}
func (m *recordingMetrics) RecordImpulse(string) {
	m.mu.Lock()
	m.impulses++
	m.mu.Unlock()
}
func (m *recordingMetrics) RecordPass(int, int, int, float64) {
	m.mu.Lock()
	m.passes++
	m.mu.Unlock()
}
func (m *recordingMetrics) RecordNotification(string, error) {}
