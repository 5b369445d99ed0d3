package mail

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// SendGridMailer delivers mail through the SendGrid v3 API.
type SendGridMailer struct {
	client   *sendgrid.Client
	from     string
	fromName string
	logger   *zap.Logger
}

func NewSendGridMailer(apiKey, from, fromName string, logger *zap.Logger) (*SendGridMailer, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if from == "" {
		return nil, errors.New("sendgrid from address is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
		logger:   logger,
	}, nil
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("sendgrid: to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(m.fromName, m.from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	m.logger.Debug("mail sent",
		zap.String("provider", "sendgrid"),
		zap.Int("status", response.StatusCode),
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
