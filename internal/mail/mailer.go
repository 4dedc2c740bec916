package mail

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/complaint-tracker/internal/config"
)

// Sender delivers outbound mail. Satisfied by the SMTP mailer; tests
// substitute a fake.
type Sender interface {
	SendComplaintCreated(to, title, category, priority, description string) error
	SendStatusChanged(to, title, newStatus string, changedAt time.Time) error
}

// Mailer sends notification mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds an SMTP-backed sender.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendComplaintCreated notifies the admin address about a new complaint.
func (m *Mailer) SendComplaintCreated(to, title, category, priority, description string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Complaint Tracker")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "New Complaint Submitted")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A new complaint has been submitted.\n\nTitle: %s\nCategory: %s\nPriority: %s\nDescription: %s",
		title, category, priority, description))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>A new complaint has been submitted.</p>"+
			"<p><strong>Title:</strong> %s</p>"+
			"<p><strong>Category:</strong> %s</p>"+
			"<p><strong>Priority:</strong> %s</p>"+
			"<p><strong>Description:</strong> %s</p>",
		title, category, priority, description))

	return m.dialer.DialAndSend(msg)
}

// SendStatusChanged notifies the admin address about a status update.
func (m *Mailer) SendStatusChanged(to, title, newStatus string, changedAt time.Time) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, "Complaint Tracker")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Complaint Status Updated")
	msg.SetBody("text/plain", fmt.Sprintf(
		"The status of a complaint has been updated.\n\nTitle: %s\nNew Status: %s\nUpdated At: %s",
		title, newStatus, changedAt.Format(time.RFC1123)))
	msg.AddAlternative("text/html", fmt.Sprintf(
		"<p>The status of a complaint has been updated.</p>"+
			"<p><strong>Title:</strong> %s</p>"+
			"<p><strong>New Status:</strong> %s</p>"+
			"<p><strong>Updated At:</strong> %s</p>",
		title, newStatus, changedAt.Format(time.RFC1123)))

	return m.dialer.DialAndSend(msg)
}
