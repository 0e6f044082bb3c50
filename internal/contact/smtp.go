package contact

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"
)

// Relay delivers a submission to the site owner.
type Relay interface {
	Send(ctx context.Context, s Submission) error
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

var ErrNotConfigured = errors.New("SMTP credentials not configured")

// SMTPRelay sends submissions as plain-text mail through an authenticated
// SMTP server.
type SMTPRelay struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	send SendFunc
	now  func() time.Time
}

func NewSMTPRelay(host, port, user, pass, to string) *SMTPRelay {
	return &SMTPRelay{
		Host: host,
		Port: port,
		User: user,
		Pass: pass,
		To:   to,
		send: smtp.SendMail,
		now:  time.Now,
	}
}

// WithSendFunc replaces the transport, mainly for tests.
func (r *SMTPRelay) WithSendFunc(fn SendFunc) *SMTPRelay {
	r.send = fn
	return r
}

// Send delivers s. The context only guards against starting a send after
// cancellation; net/smtp itself is not cancellable.
func (r *SMTPRelay) Send(ctx context.Context, s Submission) error {
	if r.User == "" || r.Pass == "" || r.To == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", r.User, r.Pass, r.Host)
	msg := r.Compose(s)
	if err := r.send(r.Host+":"+r.Port, auth, r.User, []string{r.To}, msg); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// Compose renders the mail, headers included.
func (r *SMTPRelay) Compose(s Submission) []byte {
	name := headerSafe(s.Name)
	if name == "" {
		name = "Anonymous"
	}
	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, s.Email, s.Message)

	var b strings.Builder
	b.WriteString("To: " + r.To + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("From: " + r.User + "\r\n")
	if email := headerSafe(s.Email); email != "" {
		b.WriteString("Reply-To: " + email + "\r\n")
	}
	b.WriteString("Date: " + r.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body + "\r\n")
	return []byte(b.String())
}

func headerSafe(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", "", "\n", "").Replace(s))
}
