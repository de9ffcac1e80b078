// internal/pkg/email/smtp.go
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/your-org/bakery-backend/internal/config"
)

// SMTPSender sends email over SMTP (Gmail, Outlook, or self-hosted)
type SMTPSender struct {
	config *config.EmailConfig
}

// NewSMTPSender creates a new SMTP sender
func NewSMTPSender(cfg *config.EmailConfig) *SMTPSender {
	return &SMTPSender{config: cfg}
}

// Send delivers the email using the configured SMTP server
func (s *SMTPSender) Send(email *Email) error {
	if s.config.SMTPHost == "" || s.config.SMTPUser == "" {
		return fmt.Errorf("SMTP configuration incomplete: missing host or username")
	}

	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)

	fromEmail := s.config.FromEmail
	var from string
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, fromEmail)
	} else {
		from = fromEmail
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(email.To, ", ")
	headers["Subject"] = email.Subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=\"utf-8\""

	if s.config.ReplyTo != "" {
		headers["Reply-To"] = s.config.ReplyTo
	}

	var msg bytes.Buffer
	for key, value := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}
	msg.WriteString("\r\n")
	msg.WriteString(email.HTMLContent)

	serverAddr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	if s.config.SMTPTLS {
		return s.sendWithTLS(serverAddr, auth, fromEmail, email.To, msg.Bytes())
	}
	return smtp.SendMail(serverAddr, auth, fromEmail, email.To, msg.Bytes())
}

// sendWithTLS sends email over an explicit TLS connection
func (s *SMTPSender) sendWithTLS(serverAddr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	tlsConfig := &tls.Config{
		ServerName: s.config.SMTPHost,
	}

	conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
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
	defer writer.Close()

	if _, err = writer.Write(msg); err != nil {
		return fmt.Errorf("failed to write email content: %w", err)
	}

	return nil
}
