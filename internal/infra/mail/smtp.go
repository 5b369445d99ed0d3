package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer delivers plain-text mail through an SMTP relay such as Mailpit.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer returns a mailer for addr ("host:port"). Credentials are
// optional; without them the relay must accept unauthenticated mail.
func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	m := &SMTPMailer{addr: addr, from: from, send: smtp.SendMail}
	if username != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("smtp: to address is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.send(m.addr, m.auth, m.from, []string{to}, buildMessage(m.from, to, subject, body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + sanitizeHeader(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
