// internal/pkg/email/api_providers.go
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	resendBaseURL     = "https://api.resend.com"
	sendGridBaseURL   = "https://api.sendgrid.com"
	mailerSendBaseURL = "https://api.mailersend.com"
)

// Resend API structures
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Tags    []Tag    `json:"tags,omitempty"`
}

type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SendGrid API structures
type SendGridEmailRequest struct {
	Personalizations []SendGridPersonalization `json:"personalizations"`
	From             SendGridEmail             `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []SendGridContent         `json:"content"`
	ReplyTo          *SendGridEmail            `json:"reply_to,omitempty"`
}

type SendGridPersonalization struct {
	To []SendGridEmail `json:"to"`
}

type SendGridEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// MailerSend API structures
type MailerSendRequest struct {
	From    MailerSendEmail   `json:"from"`
	To      []MailerSendEmail `json:"to"`
	Subject string            `json:"subject"`
	HTML    string            `json:"html"`
	Text    string            `json:"text,omitempty"`
	ReplyTo *MailerSendEmail  `json:"reply_to,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
}

type MailerSendEmail struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// sendResendEmail sends email using the Resend API
func (s *EmailService) sendResendEmail(ctx context.Context, email *Email) error {
	if s.config.APIKey == "" {
		return fmt.Errorf("%w: resend API key missing", ErrNotConfigured)
	}

	reqData := ResendEmailRequest{
		From:    s.from(),
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTMLContent,
		Text:    email.TextContent,
		ReplyTo: email.ReplyTo,
	}
	if email.Type != "" {
		reqData.Tags = []Tag{{Name: "type", Value: string(email.Type)}}
	}

	return s.postJSON(ctx, "resend", s.baseURL(resendBaseURL)+"/emails", reqData, http.StatusOK)
}

// sendSendGridEmail sends email using the SendGrid v3 API
func (s *EmailService) sendSendGridEmail(ctx context.Context, email *Email) error {
	if s.config.APIKey == "" {
		return fmt.Errorf("%w: sendgrid API key missing", ErrNotConfigured)
	}

	to := make([]SendGridEmail, 0, len(email.To))
	for _, recipient := range email.To {
		to = append(to, SendGridEmail{Email: recipient})
	}

	var replyTo *SendGridEmail
	if email.ReplyTo != "" {
		replyTo = &SendGridEmail{Email: email.ReplyTo}
	}

	content := []SendGridContent{}
	if email.TextContent != "" {
		content = append(content, SendGridContent{Type: "text/plain", Value: email.TextContent})
	}
	content = append(content, SendGridContent{Type: "text/html", Value: email.HTMLContent})

	reqData := SendGridEmailRequest{
		Personalizations: []SendGridPersonalization{{To: to}},
		From:             SendGridEmail{Email: s.config.FromEmail, Name: s.config.FromName},
		Subject:          email.Subject,
		Content:          content,
		ReplyTo:          replyTo,
	}

	return s.postJSON(ctx, "sendgrid", s.baseURL(sendGridBaseURL)+"/v3/mail/send", reqData, http.StatusAccepted)
}

// sendMailerSendEmail sends email using the MailerSend API
func (s *EmailService) sendMailerSendEmail(ctx context.Context, email *Email) error {
	if s.config.APIKey == "" {
		return fmt.Errorf("%w: mailersend API key missing", ErrNotConfigured)
	}

	to := make([]MailerSendEmail, 0, len(email.To))
	for _, recipient := range email.To {
		to = append(to, MailerSendEmail{Email: recipient})
	}

	var replyTo *MailerSendEmail
	if email.ReplyTo != "" {
		replyTo = &MailerSendEmail{Email: email.ReplyTo}
	}

	reqData := MailerSendRequest{
		From:    MailerSendEmail{Email: s.config.FromEmail, Name: s.config.FromName},
		To:      to,
		Subject: email.Subject,
		HTML:    email.HTMLContent,
		Text:    email.TextContent,
		ReplyTo: replyTo,
	}
	if email.Type != "" {
		reqData.Tags = []string{string(email.Type)}
	}

	return s.postJSON(ctx, "mailersend", s.baseURL(mailerSendBaseURL)+"/v1/email", reqData, http.StatusAccepted)
}

func (s *EmailService) baseURL(def string) string {
	if s.config.APIBaseURL != "" {
		return strings.TrimRight(s.config.APIBaseURL, "/")
	}
	return def
}

func (s *EmailService) postJSON(ctx context.Context, provider, url string, payload interface{}, want int) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", provider, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s API returned status %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
