package notify

import (
	"context"
	"fmt"
	"net"
	"time"

	"ImpulseScan/internal/domain/models"

	"github.com/wneessen/go-mail"
)

const defaultEmailTimeout = 30 * time.Second

// SendFunc delivers a built message. ctx carries the delivery deadline.
type SendFunc func(ctx context.Context, msg *mail.Msg) error

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration // whole delivery, dial included
}

// EmailNotifier sends the alert as a plain-text mail, upgrading to STARTTLS
// when the server offers it.
type EmailNotifier struct {
	cfg  EmailConfig
	send SendFunc
	now  func() time.Time
}

type EmailOption func(*EmailNotifier)

// WithSender replaces SMTP delivery, mostly for tests.
func WithSender(fn SendFunc) EmailOption {
	return func(n *EmailNotifier) { n.send = fn }
}

func NewEmailNotifier(cfg EmailConfig, opts ...EmailOption) *EmailNotifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultEmailTimeout
	}
	n := &EmailNotifier{cfg: cfg, now: time.Now}
	n.send = n.dialAndSend
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *EmailNotifier) Notify(ctx context.Context, alert *models.Alert) error {
	if len(n.cfg.To) == 0 {
		return fmt.Errorf("email: no recipients")
	}
	msg, err := BuildMessage(n.cfg.From, n.cfg.To, alert.Title, alert.Body(), n.now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	return nil
}

func (n *EmailNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(n.cfg.Timeout),
		mail.WithDialContextFunc(dialWithDeadline),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	client, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// dialWithDeadline pins the connection deadline to ctx, so a server that
// never sends its greeting cannot stall the caller.
func dialWithDeadline(ctx context.Context, network, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// BuildMessage builds the plain-text alert mail.
func BuildMessage(from string, to []string, subject, body string, date time.Time) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("email from: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("email to: %w", err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(date)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
