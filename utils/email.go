package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"install_manager/model"

	"gopkg.in/gomail.v2"
)

// StatusEmailData feeds the per-status notification templates. Every body is
// rendered fully server-side.
type StatusEmailData struct {
	ClientName   string
	OrderNumber  string
	TotalAmount  string
	AmountPaid   string
	InstallDate  string
	EngineerName string
	DetailLink   string
	Notes        string
}

// statusTemplates maps each order status to its notification template and
// subject line. A status without an entry sends nothing.
var statusTemplates = map[model.OrderStatus]struct {
	File    string
	Subject string
}{
	model.StatusPending:         {"status_pending.html", "Your order %s has been created"},
	model.StatusConfirmed:       {"status_confirmed.html", "Payment received for order %s"},
	model.StatusScheduled:       {"status_scheduled.html", "Your installation for order %s is booked"},
	model.StatusInProgress:      {"status_in_progress.html", "Your installation for order %s has started"},
	model.StatusCompleted:       {"status_completed.html", "Your installation for order %s is complete"},
	model.StatusRevisitRequired: {"status_revisit_required.html", "A follow-up visit is needed for order %s"},
}

// SendStatusEmail renders and sends the notification for a status change.
// Callers decide whether to run it asynchronously; the side-effect dispatcher
// does, and records the outcome.
func SendStatusEmail(to string, status model.OrderStatus, data StatusEmailData) error {
	entry, ok := statusTemplates[status]
	if !ok {
		return fmt.Errorf("no email template for status %s", status)
	}

	tmpl, err := template.ParseFiles("templates/" + entry.File)
	if err != nil {
		return fmt.Errorf("load email template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("render email template: %w", err)
	}

	subject := fmt.Sprintf(entry.Subject, data.OrderNumber)
	return SendHTMLEmail(to, subject, body.String())
}

// SendHTMLEmail delivers a rendered HTML body over SMTP.
func SendHTMLEmail(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	portStr := os.Getenv("SMTP_PORT")
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	port, _ := strconv.Atoi(portStr)

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(host, port, username, password)
	return d.DialAndSend(m)
}
