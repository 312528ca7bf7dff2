// Package mailer wraps the outbound mail collaborator. The reminder
// scanner only depends on the Mailer interface, so delivery can be faked
// in tests.
package mailer

import (
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/projectzen/board-api/internal/config"
)

// Mailer sends reminder notifications.
type Mailer interface {
	SendReminder(toEmail, toName, taskTitle string, deadline *time.Time) error
}

// SMTPMailer delivers mail over SMTP.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP account.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendReminder mails a task reminder to the assignee. The deadline line
// reads "N/A" when the task has none.
func (m *SMTPMailer) SendReminder(toEmail, toName, taskTitle string, deadline *time.Time) error {
	deadlineText := "N/A"
	if deadline != nil {
		deadlineText = deadline.Format(time.RFC1123)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Reminder: %s", taskTitle))
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		"<p>Hi %s,</p><p>This is a reminder for your task: <strong>%s</strong>.</p><p>Deadline: %s</p><p>– ProjectZen Team</p>",
		toName, taskTitle, deadlineText,
	))

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	return nil
}
