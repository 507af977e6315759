package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
)

// EmailNotifier sends multipart text+HTML reports over SMTP.
type EmailNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	To       []string
}

// NewEmailNotifier creates an email notifier.
func NewEmailNotifier(host string, port int, username, password, from, fromName string, to []string) *EmailNotifier {
	return &EmailNotifier{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
		FromName: fromName,
		To:       to,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// buildMessage composes a multipart/alternative MIME message.
func (n *EmailNotifier) buildMessage(subject, textBody, htmlBody string) ([]byte, error) {
	from := []*mail.Address{{Name: n.FromName, Address: n.From}}
	to := make([]*mail.Address, len(n.To))
	for i, addr := range n.To {
		to[i] = &mail.Address{Address: addr}
	}

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", from)
	h.SetAddressList("To", to)
	h.SetSubject(subject)

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message writer: %w", err)
	}

	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline writer: %w", err)
	}
	var th mail.InlineHeader
	th.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	pw, err := iw.CreatePart(th)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := io.WriteString(pw, textBody); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}
	pw.Close()

	if htmlBody != "" {
		var hh mail.InlineHeader
		hh.SetContentType("text/html", map[string]string{"charset": "utf-8"})
		pw, err = iw.CreatePart(hh)
		if err != nil {
			return nil, fmt.Errorf("create html part: %w", err)
		}
		if _, err := io.WriteString(pw, htmlBody); err != nil {
			return nil, fmt.Errorf("write html part: %w", err)
		}
		pw.Close()
	}
	iw.Close()
	mw.Close()

	return buf.Bytes(), nil
}

// Send composes and delivers one message.
func (n *EmailNotifier) Send(subject, textBody, htmlBody string) error {
	msg, err := n.buildMessage(subject, textBody, htmlBody)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}
	if err := smtp.SendMail(addr, auth, n.From, n.To, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	return nil
}

// Notify delivers the report with exponential backoff retry.
func (n *EmailNotifier) Notify(ctx context.Context, subject, text, html string) error {
	const maxRetries = 3
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := n.Send(subject, text, html); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] email send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
