package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ImpulseScan/internal/domain/models"
	drepo "ImpulseScan/internal/domain/repository"
	"ImpulseScan/internal/service/ratelimit"
	"ImpulseScan/pkg/cache"
	"ImpulseScan/pkg/logger"

	"github.com/google/uuid"
)

const (
	passLockKey   = "scan:pass"
	lastReportKey = "scan:last"
)

type Resolver interface {
	Resolve(ctx context.Context) ([]string, error)
}

type Sampler interface {
	Sample(ctx context.Context, instID string) (float64, error)
}

// Scanner runs scan passes: resolve the universe, sample every instrument
// sequentially under a fixed pacing delay, then notify once if anything
// crossed the threshold.
type Scanner struct {
	resolver Resolver
	sampler  Sampler
	notifier drepo.Notifier
	metrics  drepo.Metrics
	log      *logger.Logger
	cfg      ScanConfig

	sleep  ratelimit.SleepFunc
	now    func() time.Time
	newID  func() string
	locker cache.Locker
	store  cache.Service

	running atomic.Bool
	mu      sync.RWMutex
	last    *models.PassReport
}

type ScannerOption func(*Scanner)

func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) { s.now = now }
}

// WithSleep replaces the pacing sleep.
func WithSleep(fn ratelimit.SleepFunc) ScannerOption {
	return func(s *Scanner) { s.sleep = fn }
}

func WithIDGenerator(fn func() string) ScannerOption {
	return func(s *Scanner) { s.newID = fn }
}

// WithLocker adds a lock shared with other processes, e.g. Redis.
func WithLocker(l cache.Locker) ScannerOption {
	return func(s *Scanner) { s.locker = l }
}

// WithReportStore persists the last report so other processes can read it.
func WithReportStore(c cache.Service) ScannerOption {
	return func(s *Scanner) { s.store = c }
}

func NewScanner(
	resolver Resolver,
	sampler Sampler,
	notifier drepo.Notifier,
	metrics drepo.Metrics,
	cfg ScanConfig,
	l *logger.Logger,
	opts ...ScannerOption,
) *Scanner {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	s := &Scanner{
		resolver: resolver,
		sampler:  sampler,
		notifier: notifier,
		metrics:  metrics,
		log:      l.Component("scanner"),
		cfg:      cfg,
		sleep:    ratelimit.Sleep,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one pass and blocks until it ends. It returns
// ErrPassInProgress if another pass holds the lock. A cancelled context
// stops the loop; the partial report is returned together with the error
// and no notification is sent.
func (s *Scanner) Run(ctx context.Context) (*models.PassReport, error) {
	passID, release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.pass(ctx, passID)
}

// Start runs a pass in the background. The lock is taken before Start
// returns, so a busy scanner is reported synchronously.
func (s *Scanner) Start(ctx context.Context) error {
	passID, release, err := s.acquire(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer release()
		if _, err := s.pass(ctx, passID); err != nil {
			s.log.Error("background scan pass failed", logger.Error(err))
		}
	}()
	return nil
}

// Running reports whether this process is executing a pass.
func (s *Scanner) Running() bool {
	return s.running.Load()
}

// LastReport returns the most recent pass report, preferring the shared
// store when one is configured.
func (s *Scanner) LastReport(ctx context.Context) (*models.PassReport, bool) {
	if s.store != nil {
		var r models.PassReport
		err := s.store.Get(ctx, lastReportKey, &r)
		if err == nil {
			return &r, true
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.log.Warn("read last report", logger.Error(err))
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.last != nil
}

// acquire claims the pass for this process and, when configured, the shared
// lock. The returned pass ID is also the lock token, so a pass that outlives
// LockTTL cannot release a lock taken by a later pass.
func (s *Scanner) acquire(ctx context.Context) (string, func(), error) {
	if !s.running.CompareAndSwap(false, true) {
		return "", nil, models.ErrPassInProgress
	}
	passID := s.newID()
	if s.locker == nil {
		return passID, func() { s.running.Store(false) }, nil
	}

	ok, err := s.locker.TryLock(ctx, passLockKey, passID, s.cfg.LockTTL)
	if err != nil {
		s.running.Store(false)
		return "", nil, fmt.Errorf("acquire pass lock: %w", err)
	}
	if !ok {
		s.running.Store(false)
		return "", nil, models.ErrPassInProgress
	}
	return passID, func() {
		if err := s.locker.Unlock(context.Background(), passLockKey, passID); err != nil {
			s.log.Warn("release pass lock", logger.Error(err))
		}
		s.running.Store(false)
	}, nil
}

func (s *Scanner) pass(ctx context.Context, passID string) (*models.PassReport, error) {
	started := s.now().UTC()
	log := s.log.With(logger.String("pass_id", passID))

	log.Info("scan pass started",
		logger.String("bar", s.cfg.Bar),
		logger.Float64("threshold", s.cfg.Threshold),
	)

	universe, err := s.resolver.Resolve(ctx)
	if err != nil {
		s.metrics.RecordError("universe")
		log.Error("universe resolution failed", logger.Error(err))
		if !errors.Is(err, models.ErrUniverseResolution) {
			err = fmt.Errorf("%w: %w", models.ErrUniverseResolution, err)
		}
		return nil, err
	}

	report := &models.PassReport{
		Summary:  models.ScanSummary{PassID: passID, StartedAt: started},
		Impulses: make([]models.ImpulseRecord, 0),
		Results:  make([]models.ScanResult, 0, len(universe)),
	}

	pacer := ratelimit.NewPacer(s.cfg.Delay, ratelimit.WithSleep(s.sleep))
	var interrupted error
	for _, instID := range universe {
		if err := pacer.Wait(ctx); err != nil {
			interrupted = err
			break
		}
		s.sampleOne(ctx, log, report, instID)
	}

	sum := &report.Summary
	sum.Impulses = len(report.Impulses)
	sum.Duration = s.now().Sub(started)
	s.metrics.RecordPass(sum.Attempted, sum.Impulses, sum.Errors, sum.Duration.Seconds())

	log.Info("scan pass finished",
		logger.Int("universe", len(universe)),
		logger.Int("attempted", sum.Attempted),
		logger.Int("impulses", sum.Impulses),
		logger.Int("errors", sum.Errors),
		logger.Duration("elapsed_ms", sum.Duration),
	)

	if interrupted != nil {
		s.remember(ctx, report)
		return report, fmt.Errorf("scan interrupted after %d of %d instruments: %w",
			sum.Attempted, len(universe), interrupted)
	}

	if len(report.Impulses) > 0 {
		s.dispatch(ctx, log, report)
	} else {
		log.Info("no impulses detected")
	}

	s.remember(ctx, report)
	return report, nil
}

func (s *Scanner) sampleOne(ctx context.Context, log *logger.Logger, report *models.PassReport, instID string) {
	report.Summary.Attempted++

	change, err := s.sampler.Sample(ctx, instID)
	if err != nil {
		report.Summary.Errors++
		s.metrics.RecordError(sampleErrorKind(err))
		log.Warn("sample failed", logger.String("inst_id", instID), logger.Error(err))
		report.Results = append(report.Results, models.ScanResult{
			InstID: instID,
			Status: models.StatusFailed,
			Error:  err.Error(),
		})
		return
	}

	s.metrics.RecordChange(instID, change)
	impulse := IsImpulse(change, s.cfg.Threshold)
	report.Results = append(report.Results, models.ScanResult{
		InstID:  instID,
		Status:  models.StatusMeasured,
		Change:  change,
		Impulse: impulse,
	})

	if impulse {
		report.Impulses = append(report.Impulses, models.ImpulseRecord{InstID: instID, Change: change})
		s.metrics.RecordImpulse(instID)
		log.Info("impulse", logger.String("inst_id", instID), logger.Float64("change", change))
		return
	}
	log.Debug("sampled", logger.String("inst_id", instID), logger.Float64("change", change))
}

// dispatch sends the alert. Failures are recorded on the report and logged,
// never returned.
func (s *Scanner) dispatch(ctx context.Context, log *logger.Logger, report *models.PassReport) {
	alert := BuildAlert(s.cfg, report.Summary, report.Impulses, s.now())

	start := time.Now()
	err := s.notifier.Notify(ctx, alert)
	s.metrics.RecordLatency("notify", time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, models.ErrNotification) {
			err = fmt.Errorf("%w: %w", models.ErrNotification, err)
		}
		report.NotifyError = err.Error()
		s.metrics.RecordError("notify")
		log.Error("notification failed", logger.Error(err))
		return
	}

	report.Notified = true
	log.Info("alert sent", logger.Int("impulses", len(alert.Impulses)))
}

func (s *Scanner) remember(ctx context.Context, report *models.PassReport) {
	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	if err := s.store.Set(context.WithoutCancel(ctx), lastReportKey, report, 0); err != nil {
		s.log.Warn("store last report", logger.Error(err))
	}
}

func sampleErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrSampleFetch):
		return "fetch"
	case errors.Is(err, models.ErrSampleCompute):
		return "compute"
	default:
		return "sample"
	}
}
