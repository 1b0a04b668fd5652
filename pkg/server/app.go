package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ImpulseScan/internal/domain/models"
	"ImpulseScan/pkg/config"
	xhttp "ImpulseScan/pkg/http"
	applogger "ImpulseScan/pkg/logger"
)

type Mode string

const (
	// ModeOnce runs a single pass and exits, for cron style schedulers.
	ModeOnce Mode = "once"
	// ModeServe runs the ops HTTP server; passes are triggered over HTTP.
	ModeServe Mode = "serve"
	// ModeWorker consumes the email alert queue.
	ModeWorker Mode = "worker"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeOnce, ModeServe, ModeWorker:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want once, serve or worker)", s)
}

type Scanner interface {
	Run(ctx context.Context) (*models.PassReport, error)
}

type Consumer interface {
	Start() error
	Stop(ctx context.Context) error
}

// App encapsulates the application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	scanner    Scanner
	httpServer *xhttp.Server
	consumer   Consumer
}

func New(cfg *config.Config, l *applogger.Logger, scanner Scanner, srv *xhttp.Server) *App {
	return &App{
		cfg:        cfg,
		log:        l.Component("app"),
		scanner:    scanner,
		httpServer: srv,
	}
}

// SetConsumer allows DI to inject the alert queue consumer.
func (a *App) SetConsumer(c Consumer) { a.consumer = c }

// Run executes mode until it finishes or SIGINT/SIGTERM arrives.
func (a *App) Run(mode Mode) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.Info("starting", applogger.String("mode", string(mode)))
	switch mode {
	case ModeOnce:
		return a.RunOnce(ctx)
	case ModeServe:
		return a.Serve(ctx)
	case ModeWorker:
		return a.Work(ctx)
	}
	return fmt.Errorf("unknown mode %q", mode)
}

// RunOnce runs a single pass. Errors from universe resolution or an
// interrupted pass are returned so the process can exit non-zero.
func (a *App) RunOnce(ctx context.Context) error {
	report, err := a.scanner.Run(ctx)
	if err != nil {
		if errors.Is(err, models.ErrUniverseResolution) {
			a.log.Error("pass aborted", applogger.Error(err))
		} else {
			a.log.Warn("pass ended early", applogger.Error(err))
		}
		return err
	}

	a.log.Info("pass complete",
		applogger.String("pass_id", report.Summary.PassID),
		applogger.Int("attempted", report.Summary.Attempted),
		applogger.Int("impulses", report.Summary.Impulses),
		applogger.Int("errors", report.Summary.Errors),
		applogger.Bool("notified", report.Notified),
	)
	return nil
}

// Serve starts the HTTP server and blocks until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	if a.httpServer == nil {
		return errors.New("http server is not configured")
	}
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	if err := a.httpServer.Stop(context.WithoutCancel(ctx)); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}

// Work runs the queue consumer and blocks until ctx is done.
func (a *App) Work(ctx context.Context) error {
	if a.consumer == nil {
		return errors.New("worker mode needs redis.enabled and the queue notify channel")
	}
	if err := a.consumer.Start(); err != nil {
		return fmt.Errorf("start queue consumer: %w", err)
	}
	a.log.Info("queue consumer started", applogger.String("prefix", a.cfg.Notify.Queue.Prefix))

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.consumer.Stop(stopCtx); err != nil {
		a.log.Warn("queue consumer stop error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
