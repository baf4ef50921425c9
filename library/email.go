package library

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// EmailSender delivers a single message. The core never retries: delivery is
// a collaborator concern and may fail silently from the caller's perspective.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// SMTPSender sends HTML reminder mail through an SMTP relay with STARTTLS
// (as negotiated by the smtp package for the standard submission port).
type SMTPSender struct {
	Host     string
	Port     int
	From     string
	Password string

	log *zap.Logger
}

func NewSMTPSender(host string, port int, from, password string, log *zap.Logger) *SMTPSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTPSender{Host: host, Port: port, From: from, Password: password, log: log}
}

func (s *SMTPSender) SendEmail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: Library System <%s>\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(reminderHTML(body))

	if err := smtp.SendMail(addr, auth, s.From, []string{to}, []byte(msg.String())); err != nil {
		s.log.Warn("smtp send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	s.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// reminderHTML wraps the message in the standard reminder template.
func reminderHTML(message string) string {
	escaped := strings.ReplaceAll(message, "\n", "<br>")
	return "<div style='width:100%;padding:20px;background:#f2f2f2;font-family:Arial;'>" +
		"<div style='max-width:500px;margin:auto;background:white;padding:25px;border-radius:12px;'>" +
		"<h2 style='text-align:center;color:#4C6EF5;'>Library Reminder</h2>" +
		"<p style='font-size:16px;color:#333;'>Hello,</p>" +
		"<p style='font-size:16px;color:#333;'>" + escaped + "</p>" +
		"<div style='margin-top:20px;padding:12px;background:#eef3ff;border-radius:8px;'>" +
		"<p style='margin:0;font-size:14px;color:#4C6EF5;'>Please return overdue items as soon as possible.</p>" +
		"</div>" +
		"<p style='margin-top:25px;text-align:center;font-size:12px;color:#777;'>" +
		"This is an automated message from the Library System.</p>" +
		"</div></div>"
}

// MemorySender records sent mail instead of delivering it. It backs tests and
// stands in when no SMTP relay is configured.
type MemorySender struct {
	entries []string
}

func NewMemorySender() *MemorySender { return &MemorySender{} }

func (m *MemorySender) SendEmail(to, subject, body string) error {
	m.entries = append(m.entries, fmt.Sprintf("TO: %s | SUBJECT: %s | MESSAGE: %s", to, subject, body))
	return nil
}

// Sent returns every recorded message in send order.
func (m *MemorySender) Sent() []string { return m.entries }
