package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"time"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     Address
	sendMail sendMailFunc
}

func NewSMTPMailer(host, port, username, password string, from Address) *SMTPMailer {
	if port == "" {
		port = "587"
	}

	return &SMTPMailer{
		addr:     net.JoinHostPort(host, port),
		host:     host,
		username: username,
		password: password,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

func (m *SMTPMailer) Provider() string { return ProviderSMTP }

func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	body := m.buildMIME(msg)

	// net/smtp has no context support; run it aside and stop waiting on cancel.
	errCh := make(chan error, 1)
	go func() {
		errCh <- m.sendMail(m.addr, auth, m.from.Email, []string{msg.To.Email}, body)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	}
}

func (m *SMTPMailer) buildMIME(msg *Message) []byte {
	from := mail.Address{Name: m.from.Name, Address: m.from.Email}
	to := mail.Address{Name: msg.To.Name, Address: msg.To.Email}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	buf.WriteString(msg.HTML)

	return buf.Bytes()
}
