package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderSendGrid = "sendgrid"
	ProviderSMTP     = "smtp"
	ProviderLog      = "log"
)

var ErrNoRecipient = errors.New("mailer: message has no recipient")

type Address struct {
	Name  string
	Email string
}

type Message struct {
	To      Address
	Subject string
	HTML    string
	Text    string
}

func (m *Message) validate() error {
	if m == nil || strings.TrimSpace(m.To.Email) == "" {
		return ErrNoRecipient
	}
	return nil
}

// Mailer performs exactly one delivery attempt per Send.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
	Provider() string
}

type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type Config struct {
	Provider       string
	From           Address
	SendGridAPIKey string
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
}

// ResolveProvider picks sendgrid when a key is present, otherwise the log transport.
func (c *Config) ResolveProvider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p != "" {
		return p
	}
	if c.SendGridAPIKey != "" {
		return ProviderSendGrid
	}
	if c.SMTPHost != "" {
		return ProviderSMTP
	}
	return ProviderLog
}

func New(cfg *Config, logger Logger) (Mailer, error) {
	if cfg == nil {
		return nil, errors.New("mailer: config is nil")
	}

	switch provider := cfg.ResolveProvider(); provider {
	case ProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, errors.New("mailer: SENDGRID_API_KEY is required for the sendgrid provider")
		}
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.From), nil
	case ProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, errors.New("mailer: SMTP_HOST is required for the smtp provider")
		}
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.From), nil
	case ProviderLog:
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unsupported provider %q", provider)
	}
}
