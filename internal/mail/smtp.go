package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// SMTPSender sends through an SMTP relay with STARTTLS and an app password
// (the Gmail setup). The context deadline bounds the whole exchange.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	FromName string
}

func NewSMTPSender(user, password, fromName string) *SMTPSender {
	return &SMTPSender{
		Host:     "smtp.gmail.com",
		Port:     587,
		User:     user,
		Password: password,
		FromName: fromName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	c, err := s.connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	defer c.Close()

	if err := c.Mail(s.User); err != nil {
		return fmt.Errorf("%w: mail from: %v", ErrDeliveryFailed, err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%w: rcpt to: %v", ErrDeliveryFailed, err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("%w: data: %v", ErrDeliveryFailed, err)
	}
	if _, err := wc.Write([]byte(s.encode(msg))); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrDeliveryFailed, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%w: close body: %v", ErrDeliveryFailed, err)
	}

	return c.Quit()
}

// Probe dials and authenticates, then quits without sending.
func (s *SMTPSender) Probe(ctx context.Context) error {
	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.Quit()
}

func (s *SMTPSender) connect(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(30 * time.Second))
	}

	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp handshake: %w", err)
	}

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
			c.Close()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", s.User, s.Password, s.Host)
	if err := c.Auth(auth); err != nil {
		c.Close()
		return nil, fmt.Errorf("auth: %w", err)
	}
	return c, nil
}

// encode builds a multipart/alternative MIME message with text and HTML
// parts.
func (s *SMTPSender) encode(msg Message) string {
	var b strings.Builder
	var mp = multipart.NewWriter(&b)

	from := s.User
	if s.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.FromName, s.User)
	}

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mp.Boundary())

	part, _ := mp.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	fmt.Fprint(part, msg.Text)

	if msg.HTML != "" {
		part, _ = mp.CreatePart(textproto.MIMEHeader{
			"Content-Type": {"text/html; charset=utf-8"},
		})
		fmt.Fprint(part, msg.HTML)
	}

	_ = mp.Close()
	return b.String()
}
