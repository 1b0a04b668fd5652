package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ImpulseScan/internal/domain/models"
	"ImpulseScan/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func sampleAlert() *models.Alert {
	return &models.Alert{
		PassID:      "pass-7",
		Title:       "Crypto 30m Impulse Alerts (≥ 6%)",
		Headline:    "IMPULSE BREAKOUTS (Single 30m ≥ 6%)",
		Impulses:    []models.ImpulseRecord{{InstID: "SOL-USDT-SWAP", Change: -6.25}},
		SummaryText: "Symbols Scanned: 1\n",
	}
}

type notifierFunc func(ctx context.Context, a *models.Alert) error

func (f notifierFunc) Notify(ctx context.Context, a *models.Alert) error { return f(ctx, a) }

type channelResults struct {
	ok, failed []string
}

func (c *channelResults) RecordError(string)                {}
func (c *channelResults) RecordLatency(string, float64)     {}
func (c *channelResults) RecordChange(string, float64)      {}
func (c *channelResults) RecordImpulse(string)              {}
func (c *channelResults) RecordPass(int, int, int, float64) {}
func (c *channelResults) RecordNotification(ch string, err error) {
	if err != nil {
		c.failed = append(c.failed, ch)
		return
	}
	c.ok = append(c.ok, ch)
}

func TestMultiDeliversToEveryChannel(t *testing.T) {
	var calls []string
	ok := func(name string) Channel {
		return Channel{Name: name, Notifier: notifierFunc(func(context.Context, *models.Alert) error {
			calls = append(calls, name)
			return nil
		})}
	}
	boom := errors.New("smtp down")
	failing := Channel{Name: "email", Notifier: notifierFunc(func(context.Context, *models.Alert) error {
		calls = append(calls, "email")
		return boom
	})}

	res := &channelResults{}
	m := NewMulti(res, logger.Nop(), ok("log"), failing, ok("kafka"))

	err := m.Notify(context.Background(), sampleAlert())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotification)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "email: smtp down")

	assert.Equal(t, []string{"log", "email", "kafka"}, calls)
	assert.Equal(t, []string{"log", "kafka"}, res.ok)
	assert.Equal(t, []string{"email"}, res.failed)
	assert.Equal(t, []string{"log", "email", "kafka"}, m.Names())
}

func TestMultiAllOK(t *testing.T) {
	m := NewMulti(nil, logger.Nop(), Channel{Name: "log", Notifier: NewLogNotifier(logger.Nop())})
	assert.NoError(t, m.Notify(context.Background(), sampleAlert()))
}

type sentMail struct {
	msg      *mail.Msg
	raw      string
	deadline time.Time
}

func capture(got *sentMail) EmailOption {
	return WithSender(func(ctx context.Context, msg *mail.Msg) error {
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		got.msg, got.raw = msg, buf.String()
		got.deadline, _ = ctx.Deadline()
		return nil
	})
}

func TestEmailNotifier(t *testing.T) {
	var got sentMail
	n := NewEmailNotifier(EmailConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "bot",
		Password: "secret",
		From:     "bot@example.com",
		To:       []string{"a@example.com", "b@example.com"},
		Timeout:  5 * time.Second,
	}, capture(&got))

	start := time.Now()
	require.NoError(t, n.Notify(context.Background(), sampleAlert()))
	require.NotNil(t, got.msg)

	rcpts, err := got.msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, rcpts)

	assert.Contains(t, got.raw, "bot@example.com")
	assert.Contains(t, got.raw, "Subject: =?UTF-8?q?")
	assert.Contains(t, got.raw, "text/plain")
	assert.Contains(t, got.raw, "SOL-USDT-SWAP: -6.25%")

	assert.False(t, got.deadline.IsZero(), "delivery must carry a deadline")
	assert.WithinDuration(t, start.Add(5*time.Second), got.deadline, time.Second)
}

func TestEmailNotifierErrors(t *testing.T) {
	n := NewEmailNotifier(EmailConfig{Host: "h", Port: 25, From: "x@y.z"})
	assert.Error(t, n.Notify(context.Background(), sampleAlert()), "no recipients")

	n = NewEmailNotifier(EmailConfig{Host: "h", Port: 25, From: "not an address", To: []string{"a@b.c"}})
	assert.Error(t, n.Notify(context.Background(), sampleAlert()))

	boom := errors.New("535 auth failed")
	n = NewEmailNotifier(EmailConfig{Host: "h", Port: 25, From: "x@y.z", To: []string{"a@b.c"}},
		WithSender(func(context.Context, *mail.Msg) error { return boom }))
	assert.ErrorIs(t, n.Notify(context.Background(), sampleAlert()), boom)
}

// silentSMTP accepts connections and never sends the greeting.
func silentSMTP(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestEmailNotifierStalledServerHonoursDeadline(t *testing.T) {
	host, port := silentSMTP(t)
	n := NewEmailNotifier(EmailConfig{Host: host, Port: port, From: "x@y.z", To: []string{"a@b.c"}})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- n.Notify(ctx, sampleAlert()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Notify did not return after the context deadline")
	}
}

func TestEmailNotifierStalledServerHonoursTimeout(t *testing.T) {
	host, port := silentSMTP(t)
	n := NewEmailNotifier(EmailConfig{
		Host: host, Port: port, From: "x@y.z", To: []string{"a@b.c"},
		Timeout: 200 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() { done <- n.Notify(context.Background(), sampleAlert()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Notify did not return after the configured timeout")
	}
}

type memPublisher struct {
	msgType string
	raw     json.RawMessage
}

func (p *memPublisher) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	p.msgType, p.raw = msgType, b
	return nil
}

func TestQueueNotifierAndJob(t *testing.T) {
	pub := &memPublisher{}
	require.NoError(t, NewQueueNotifier(pub).Notify(context.Background(), sampleAlert()))
	assert.Equal(t, EmailAlertType, pub.msgType)

	var mailed sentMail
	job := NewEmailAlertJob(NewEmailNotifier(EmailConfig{Host: "h", Port: 25, From: "x@y.z", To: []string{"a@b.c"}},
		capture(&mailed)))

	assert.Equal(t, EmailAlertType, job.Type())
	require.NoError(t, job.Handle(context.Background(), pub.raw))
	assert.Contains(t, mailed.raw, "SOL-USDT-SWAP: -6.25%")

	assert.Error(t, job.Handle(context.Background(), json.RawMessage(`"not an alert"`)))
}

func TestHubBroadcasts(t *testing.T) {
	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	require.NoError(t, hub.Notify(context.Background(), sampleAlert()), "no clients is fine")

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, hub.Notify(context.Background(), sampleAlert()))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.Alert
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "pass-7", got.PassID)
	assert.Equal(t, "SOL-USDT-SWAP", got.Impulses[0].InstID)

	_ = conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}
