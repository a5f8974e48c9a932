package contact

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPRelay mails messages to the site owner through an SMTP server using
// PLAIN authentication.
type SMTPRelay struct {
	Host     string
	Port     string
	Username string
	Password string
	To       string

	// SendMail defaults to smtp.SendMail.
	SendMail SendMailFunc
}

func (r *SMTPRelay) Send(ctx context.Context, msg Message) error {
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("smtp: credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	to := r.To
	if to == "" {
		to = r.Username
	}
	send := r.SendMail
	if send == nil {
		send = smtp.SendMail
	}

	auth := smtp.PlainAuth("", r.Username, r.Password, r.Host)
	addr := net.JoinHostPort(r.Host, r.Port)
	if err := send(addr, auth, r.Username, []string{to}, composeMail(r.Username, to, msg)); err != nil {
		return fmt.Errorf("smtp: sending: %w", err)
	}
	return nil
}

func composeMail(from, to string, msg Message) []byte {
	f := msg.Fields
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(f.Subject))
	body := fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Subject: %s
Message:
%s

---
Sent from your portfolio contact form
`, f.Name, f.Email, headerSafe(f.Subject), f.Message)

	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("Reply-To: " + headerSafe(f.Email) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// headerSafe strips line breaks so user input cannot inject headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
