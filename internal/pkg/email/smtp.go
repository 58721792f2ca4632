// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// sendSMTPEmail sends email over SMTP
func (s *EmailService) sendSMTPEmail(email *Email) error {
	if s.config.SMTPHost == "" {
		return fmt.Errorf("%w: SMTP host missing", ErrNotConfigured)
	}

	var auth smtp.Auth
	if s.config.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)
	}

	msg := s.buildMIMEMessage(email)
	serverAddr := net.JoinHostPort(s.config.SMTPHost, strconv.Itoa(s.config.SMTPPort))

	if s.config.SMTPUseTLS {
		return s.sendSMTPWithTLS(serverAddr, auth, s.config.FromEmail, email.To, msg)
	}
	return smtp.SendMail(serverAddr, auth, s.config.FromEmail, email.To, msg)
}

func (s *EmailService) buildMIMEMessage(email *Email) []byte {
	headers := [][2]string{
		{"From", s.from()},
		{"To", strings.Join(email.To, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", email.Subject)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="utf-8"`},
	}
	if email.ReplyTo != "" {
		headers = append(headers, [2]string{"Reply-To", email.ReplyTo})
	}

	var msg bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", h[0], h[1])
	}
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)
	return msg.Bytes()
}

// sendSMTPWithTLS sends email over an implicit TLS connection (port 465)
func (s *EmailService) sendSMTPWithTLS(serverAddr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: s.config.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to create TLS connection: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to send DATA command: %w", err)
	}
	if _, err := writer.Write(msg); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write email content: %w", err)
	}
	return writer.Close()
}
