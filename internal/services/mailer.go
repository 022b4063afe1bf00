package services

import (
	"bytes"
	"fmt"
	"io"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/kite-oss/task-schedule-api/internal/models"
)

// SMTPMailer delivers assignment notifications over SMTP. Messages are
// composed with go-message so headers and encodings come out well-formed.
type SMTPMailer struct {
	addr     string
	from     string
	fromName string
	auth     smtp.Auth
}

// NewSMTPMailer creates a mailer. Returns nil when host is empty so callers
// can wire the mailer unconditionally and let delivery become a no-op.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	if host == "" || from == "" {
		return nil
	}

	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{
		addr:     host + ":" + port,
		from:     from,
		fromName: "Task Schedule",
		auth:     auth,
	}
}

// NotifyAssignment sends a task-assignment notification to the assignee.
func (m *SMTPMailer) NotifyAssignment(task models.Task, assignee models.User) error {
	var buf bytes.Buffer

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: m.fromName, Address: m.from}})
	h.SetAddressList("To", []*mail.Address{{Name: assignee.Name, Address: assignee.Email}})
	h.SetSubject(fmt.Sprintf("New task assigned: %s", task.Title))

	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return fmt.Errorf("failed to compose message: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\nYou have been assigned a new task.\r\n\r\nTitle: %s\r\nPriority: %s\r\n",
		assignee.Name, task.Title, task.Priority)
	if task.Description != "" {
		body += fmt.Sprintf("Description: %s\r\n", task.Description)
	}
	if task.DueDate != nil {
		body += fmt.Sprintf("Due: %s\r\n", task.DueDate.Format("2006-01-02"))
	}

	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize message: %w", err)
	}

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{assignee.Email}, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	return nil
}
