package notify

import (
	"context"
	"errors"
	"fmt"

	"ImpulseScan/internal/domain/models"
	drepo "ImpulseScan/internal/domain/repository"
	"ImpulseScan/pkg/logger"
)

// Channel is a named delivery route.
type Channel struct {
	Name     string
	Notifier drepo.Notifier
}

// Multi fans an alert out to every channel. A failing channel does not stop
// the others; all failures come back as one ErrNotification.
type Multi struct {
	channels []Channel
	metrics  drepo.Metrics
	log      *logger.Logger
}

func NewMulti(metrics drepo.Metrics, l *logger.Logger, channels ...Channel) *Multi {
	if metrics == nil {
		metrics = drepo.NopMetrics{}
	}
	return &Multi{channels: channels, metrics: metrics, log: l.Component("notify")}
}

func (m *Multi) Notify(ctx context.Context, alert *models.Alert) error {
	var errs []error
	for _, ch := range m.channels {
		err := ch.Notifier.Notify(ctx, alert)
		m.metrics.RecordNotification(ch.Name, err)
		if err != nil {
			m.log.Warn("channel delivery failed",
				logger.String("channel", ch.Name),
				logger.String("pass_id", alert.PassID),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name, err))
			continue
		}
		m.log.Debug("channel delivered", logger.String("channel", ch.Name))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", models.ErrNotification, errors.Join(errs...))
	}
	return nil
}

// Names lists the configured channels in delivery order.
func (m *Multi) Names() []string {
	out := make([]string, len(m.channels))
	for i, ch := range m.channels {
		out[i] = ch.Name
	}
	return out
}
