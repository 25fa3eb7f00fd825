// Package mailer sends the single templated operator email (welcome
// notices). One send, no retry, no targeting logic.
package mailer

import (
	"fmt"

	mail "gopkg.in/mail.v2"
)

// Mailer is the outbound-email collaborator the handlers depend on.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// New creates an SMTP mailer. Returns nil when host is empty (email
// disabled); callers must treat a nil Mailer as unconfigured.
func New(host string, port int, user, pass, from string) *SMTPMailer {
	if host == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: mail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// WelcomeBody renders the welcome email for a newly approved user.
func WelcomeBody(name string) string {
	if name == "" {
		name = "חבר יקר"
	}
	return fmt.Sprintf(`<div dir="rtl">
<h2>ברוך הבא, %s!</h2>
<p>החשבון שלך אושר. אפשר להתחיל להצטרף לקבוצות ולסמן צ'ק-אין יומי.</p>
</div>`, name)
}
