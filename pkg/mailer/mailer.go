package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/wneessen/go-mail"
)

// Message is a single HTML notification.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers notification mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type dialFunc func(ctx context.Context, msgs ...*mail.Msg) error

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	from string
	dial dialFunc
}

// New returns an SMTP sender when mail is enabled, otherwise a sender that
// only logs what would have been sent.
func New(cfg config.MailConfig, logg *logger.Logger) (Sender, error) {
	if !cfg.Enabled {
		return LogSender{logg: logg}, nil
	}
	client, err := mail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{from: cfg.From, dial: client.DialAndSendWithContext}, nil
}

// usesSMTPAuth reports whether the relay expects credentials.
func usesSMTPAuth(cfg config.MailConfig) bool {
	return strings.TrimSpace(cfg.Username) != ""
}

func clientOptions(cfg config.MailConfig) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(cfg.Timeout),
	}
	if usesSMTPAuth(cfg) {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMessage(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.dial(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func buildMessage(from string, msg Message) (*mail.Msg, error) {
	if strings.TrimSpace(msg.To) == "" {
		return nil, errors.New("mail recipient is required")
	}
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

// LogSender records messages instead of delivering them.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) LogSender {
	return LogSender{logg: logg}
}

func (l LogSender) Send(ctx context.Context, msg Message) error {
	if l.logg == nil {
		return nil
	}
	ctx = l.logg.WithFields(ctx, map[string]any{"mail_to": msg.To, "mail_subject": msg.Subject})
	l.logg.Info(ctx, "mail delivery disabled; message not sent")
	return nil
}

// SendBestEffort delivers msg and logs a failure instead of returning it.
// It reports whether the message was handed off.
func SendBestEffort(ctx context.Context, sender Sender, logg *logger.Logger, msg Message) bool {
	if sender == nil {
		return false
	}
	if err := sender.Send(ctx, msg); err != nil {
		if logg != nil {
			logg.WarnErr(logg.WithField(ctx, "mail_to", msg.To), "mail.delivery_failed", err)
		}
		return false
	}
	return true
}
