package notify

import (
	"context"

	"ImpulseScan/internal/domain/models"
	"ImpulseScan/pkg/logger"
)

// LogNotifier writes the alert to the application log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(l *logger.Logger) *LogNotifier {
	return &LogNotifier{log: l.Component("alert")}
}

func (n *LogNotifier) Notify(_ context.Context, alert *models.Alert) error {
	lines := make([]string, 0, len(alert.Impulses))
	for _, r := range alert.Impulses {
		lines = append(lines, models.FormatImpulseLine(r))
	}
	n.log.Info(alert.Title,
		logger.String("pass_id", alert.PassID),
		logger.Int("impulses", len(alert.Impulses)),
		logger.Strings("lines", lines),
	)
	return nil
}
