package repository

import (
	"context"
	"errors"
	"testing"

	"ImpulseScan/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	topic string
	key   []byte
	value interface{}
}

type fakeProducer struct {
	got []published
	err error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.got = append(f.got, published{topic, key, value})
	return f.err
}

func TestKafkaNotifier(t *testing.T) {
	p := &fakeProducer{}
	alert := &models.Alert{PassID: "pass-9"}

	require.NoError(t, NewKafkaNotifier(p, "impulsescan.alerts").Notify(context.Background(), alert))
	require.Len(t, p.got, 1)
	assert.Equal(t, "impulsescan.alerts", p.got[0].topic)
	assert.Equal(t, []byte("pass-9"), p.got[0].key)
	assert.Same(t, alert, p.got[0].value)

	p.err = errors.New("broker down")
	assert.ErrorIs(t, NewKafkaNotifier(p, "t").Notify(context.Background(), alert), p.err)
}

func TestKafkaLogPublisher(t *testing.T) {
	p := &fakeProducer{}
	require.NoError(t, NewKafkaLogPublisher(p).PublishMessage(context.Background(), "impulsescan.logs", []string{"x"}))
	require.Len(t, p.got, 1)
	assert.Equal(t, "impulsescan.logs", p.got[0].topic)
	assert.Nil(t, p.got[0].key)
}
