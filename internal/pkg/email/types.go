// internal/pkg/email/types.go
package email

import "strings"

// EmailType tags a message for provider analytics
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeNewOrder          EmailType = "new_order"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	TextContent string    `json:"text_content,omitempty"`
	ReplyTo     string    `json:"reply_to,omitempty"`
	Type        EmailType `json:"type"`
}

// Validate checks the message has somewhere to go and something to say.
func (e *Email) Validate() error {
	if len(e.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range e.To {
		if strings.TrimSpace(to) == "" {
			return ErrNoRecipients
		}
	}
	if e.Subject == "" {
		return ErrEmptySubject
	}
	return nil
}

// formatAddress renders "Name <addr>" or just the address.
func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return name + " <" + addr + ">"
}
