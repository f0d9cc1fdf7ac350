package notify

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/gomail.v2"
)

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// DefaultSendTimeout bounds one SMTP session. The dialer only times out the
// TCP connect, so a server that stalls mid-session is cut off here instead.
const DefaultSendTimeout = time.Minute

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email delivers plain-text mail over SMTP. The dialer upgrades with
// STARTTLS when the server offers it and authenticates with the credentials.
type Email struct {
	cfg         EmailConfig
	hostname    string
	sender      mailSender
	SendTimeout time.Duration
}

func NewEmail(cfg EmailConfig) *Email {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return &Email{
		cfg:      cfg,
		hostname: host,
		sender:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),

		SendTimeout: DefaultSendTimeout,
	}
}

// Message builds the mail; the subject is prefixed with the local hostname
// so alerts from several monitors can be told apart.
func (e *Email) Message(subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", e.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s", e.hostname, subject))
	m.SetBody("text/plain", body)
	return m
}

func (e *Email) Send(ctx context.Context, subject, body string) error {
	if e == nil || e.cfg.Host == "" || e.cfg.To == "" {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.SendTimeout)
		defer cancel()
	}

	// gomail has no context support; a stalled session is abandoned and its
	// goroutine exits once the server lets go.
	msg := e.Message(subject, body)
	done := make(chan error, 1)
	go func() { done <- e.sender.DialAndSend(msg) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("smtp send via %s:%d: %w", e.cfg.Host, e.cfg.Port, err)
	}
	return nil
}
