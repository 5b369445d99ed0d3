package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	domcontact "example.com/storefront/internal/domain/contact"
)

var ErrInvalidMessage = errors.New("invalid contact message")

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Service struct {
	repo   domcontact.Repository
	mailer Mailer
	inbox  string
	logger *zap.Logger
}

// NewService wires the contact form. When inbox is empty no notification is
// sent.
func NewService(repo domcontact.Repository, mailer Mailer, inbox string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, mailer: mailer, inbox: inbox, logger: logger}
}

type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (*domcontact.Message, error) {
	msg := &domcontact.Message{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Body:    strings.TrimSpace(in.Message),
	}
	if msg.Name == "" || msg.Body == "" {
		return nil, ErrInvalidMessage
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return nil, fmt.Errorf("%w: email: %v", ErrInvalidMessage, err)
	}

	saved, err := s.repo.Create(ctx, msg)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && s.inbox != "" {
		subject := "Contact form: " + saved.Subject
		body := fmt.Sprintf("From: %s <%s>\n\n%s\n", saved.Name, saved.Email, saved.Body)
		if err := s.mailer.Send(ctx, s.inbox, subject, body); err != nil {
			s.logger.Warn("contact notification not sent", zap.Int64("message_id", saved.ID), zap.Error(err))
		}
	}
	return saved, nil
}

func (s *Service) List(ctx context.Context) ([]*domcontact.Message, error) {
	return s.repo.List(ctx)
}
