package repository

import (
	"context"

	"ImpulseScan/internal/domain/models"
	drepo "ImpulseScan/internal/domain/repository"
	"ImpulseScan/pkg/logger"
)

// producer is the part of pkg/kafka.Producer used here.
type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaNotifier publishes each alert to a topic, keyed by pass ID.
type KafkaNotifier struct {
	producer producer
	topic    string
}

func NewKafkaNotifier(p producer, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: p, topic: topic}
}

var _ drepo.Notifier = (*KafkaNotifier)(nil)

func (n *KafkaNotifier) Notify(ctx context.Context, alert *models.Alert) error {
	return n.producer.Publish(ctx, n.topic, []byte(alert.PassID), alert)
}

// KafkaLogPublisher ships error-log digests from the log collector.
type KafkaLogPublisher struct {
	producer producer
}

func NewKafkaLogPublisher(p producer) *KafkaLogPublisher {
	return &KafkaLogPublisher{producer: p}
}

var _ logger.Publisher = (*KafkaLogPublisher)(nil)

func (p *KafkaLogPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}
