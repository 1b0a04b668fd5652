package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"ImpulseScan/internal/domain/models"
	"ImpulseScan/pkg/queue"
)

// EmailAlertType is the queue message type carrying an alert to be mailed.
const EmailAlertType = "alert.email"

// QueueNotifier hands the alert to the Redis queue; a worker mails it.
type QueueNotifier struct {
	pub queue.Publisher
}

func NewQueueNotifier(pub queue.Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (n *QueueNotifier) Notify(ctx context.Context, alert *models.Alert) error {
	if err := n.pub.PublishMessage(ctx, EmailAlertType, alert); err != nil {
		return fmt.Errorf("enqueue alert: %w", err)
	}
	return nil
}

// EmailAlertJob is the worker side of QueueNotifier.
type EmailAlertJob struct {
	email *EmailNotifier
}

func NewEmailAlertJob(email *EmailNotifier) *EmailAlertJob {
	return &EmailAlertJob{email: email}
}

func (j *EmailAlertJob) Name() string { return "email_alert" }
func (j *EmailAlertJob) Type() string { return EmailAlertType }

func (j *EmailAlertJob) Handle(ctx context.Context, payload json.RawMessage) error {
	alert, err := queue.ParsePayload[models.Alert](payload)
	if err != nil {
		return err
	}
	return j.email.Notify(ctx, alert)
}
