package notify

import (
	"context"
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/Senorsean/crm-employ-2025-sub001/config"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
)

// Mailer sends an HTML e-mail.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends mail through the configured SMTP relay with PLAIN auth.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	send     sendFunc
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.Username,
		password: cfg.SMTP.Password,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.host == "" || m.port == "" || m.username == "" || m.password == "" {
		return fmt.Errorf("incomplete SMTP configuration: host=%q, port=%q, username=%q", m.host, m.port, m.username)
	}

	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("invalid recipient %q", to)
	}

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.username, m.password, m.host)

	from := m.username
	contentType := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	message := "From: " + from + "\n" +
		"To: " + to + "\n" +
		"Subject: " + mime.QEncoding.Encode("utf-8", headerBreaks.Replace(subject)) + "\n" +
		contentType + "\n" +
		body

	if err := m.send(addr, auth, from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	return nil
}

// ReminderSubject is the subject line of an appointment reminder.
func ReminderSubject(a *model.Appointment) string {
	return "Rappel : rendez-vous avec " + a.Title
}

// ReminderEmail renders the HTML body of an appointment reminder.
func ReminderEmail(a *model.Appointment, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><body style="font-family: Arial, sans-serif; color: #333;">`)
	b.WriteString(`<h2 style="color: #1e3a8a;">Rappel de rendez-vous</h2>`)
	fmt.Fprintf(&b, `<p>%s.</p>`, html.EscapeString(model.AppointmentDescription(a, loc)))
	fmt.Fprintf(&b, `<p><strong>Entreprise :</strong> %s</p>`, html.EscapeString(a.Title))
	if a.Agency != "" {
		fmt.Fprintf(&b, `<p><strong>Agence :</strong> %s</p>`, html.EscapeString(a.Agency))
	}
	fmt.Fprintf(&b, `<p>%s.</p>`, html.EscapeString(model.AppointmentAction(a)))
	b.WriteString(`</body></html>`)
	return b.String()
}
