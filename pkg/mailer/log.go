package mailer

import "context"

// LogMailer records messages instead of delivering them. Development default.
type LogMailer struct {
	logger Logger
}

func NewLogMailer(logger Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Provider() string { return ProviderLog }

func (m *LogMailer) Send(_ context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	if m.logger != nil {
		m.logger.Info("Email not delivered (log provider)",
			"to", msg.To.Email,
			"subject", msg.Subject,
			"html_bytes", len(msg.HTML),
		)
	}
	return nil
}
