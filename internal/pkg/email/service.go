// internal/pkg/email/service.go
package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
)

var (
	ErrNoRecipients        = errors.New("email has no recipients")
	ErrEmptySubject        = errors.New("email has no subject")
	ErrUnsupportedProvider = errors.New("unsupported email provider")
	ErrNotConfigured       = errors.New("email provider not configured")
)

// Sender delivers a rendered email.
type Sender interface {
	SendEmail(ctx context.Context, email *Email) error
}

// EmailService sends mail through the configured provider
type EmailService struct {
	config config.EmailConfig
	client *http.Client
	log    logrus.FieldLogger
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig, log logrus.FieldLogger) *EmailService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EmailService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	if email.ReplyTo == "" {
		email.ReplyTo = s.config.ReplyTo
	}

	var err error
	switch s.config.Provider {
	case "smtp":
		err = s.sendSMTPEmail(email)
	case "resend":
		err = s.sendResendEmail(ctx, email)
	case "sendgrid":
		err = s.sendSendGridEmail(ctx, email)
	case "mailersend":
		err = s.sendMailerSendEmail(ctx, email)
	case "log":
		s.log.WithFields(logrus.Fields{
			"to":      email.To,
			"subject": email.Subject,
			"type":    email.Type,
		}).Info("Email not sent, log provider active")
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedProvider, s.config.Provider)
	}
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"to":       email.To,
		"type":     email.Type,
		"provider": s.config.Provider,
	}).Info("Email sent")
	return nil
}

func (s *EmailService) from() string {
	return formatAddress(s.config.FromName, s.config.FromEmail)
}
