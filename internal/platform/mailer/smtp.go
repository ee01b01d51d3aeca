package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/SarikaG13/taskapp-backend/internal/config"
	"github.com/SarikaG13/taskapp-backend/internal/platform/logger"
)

// SMTPMailer implements Mailer over net/smtp, with optional TLS.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// NewSMTPMailer creates a mailer from the SMTP configuration.
// If logger is nil, a default logger will be used.
func NewSMTPMailer(cfg config.SMTPConfig, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPMailer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "smtp_mailer")),
	}
}

// Ensure SMTPMailer implements Mailer interface
var _ Mailer = (*SMTPMailer)(nil)

// Send implements Mailer.Send.
// The context is consulted before dialing; net/smtp itself does not support
// cancellation mid-session.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	log := logger.FromContextOrDefault(ctx, m.logger)

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := m.buildMessage(to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	var err error
	if m.cfg.UseTLS {
		err = m.sendTLS(addr, auth, to, msg)
	} else {
		err = smtp.SendMail(addr, auth, m.cfg.FromEmail, []string{to}, msg)
	}

	if err != nil {
		log.Error("failed to send email", "error", err, "to", to, "subject", subject)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("email sent", "to", to, "subject", subject)
	return nil
}

// sendTLS dials the SMTP server over an implicit TLS connection and walks
// the MAIL/RCPT/DATA exchange by hand.
func (m *SMTPMailer) sendTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: m.cfg.Host}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(m.cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to add recipient %s: %w", to, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data connection: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data connection: %w", err)
	}

	return client.Quit()
}

// buildMessage assembles the RFC 822 headers and HTML body.
func (m *SMTPMailer) buildMessage(to, subject, htmlBody string) []byte {
	var b strings.Builder

	from := m.cfg.FromEmail
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail)
	}

	b.WriteString(fmt.Sprintf("From: %s\r\n", from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return []byte(b.String())
}
