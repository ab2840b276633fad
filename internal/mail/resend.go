package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"
)

// ResendSender delivers through the Resend transactional email API.
type ResendSender struct {
	client      *resend.Client
	senderEmail string
	senderName  string
}

func NewResendSender(apiKey, senderEmail, senderName string) *ResendSender {
	return &ResendSender{
		client:      resend.NewClient(apiKey),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	from := s.senderEmail
	if s.senderName != "" {
		from = fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("%w: resend: %v", ErrDeliveryFailed, err)
	}
	return nil
}

// Probe only checks that a key is present; Resend has no cheap no-op call
// that does not consume quota.
func (s *ResendSender) Probe(ctx context.Context) error {
	if s.senderEmail == "" {
		return fmt.Errorf("resend: sender email not configured")
	}
	return nil
}
