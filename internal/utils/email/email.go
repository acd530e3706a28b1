package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/hbenali/creditbook/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendPaymentReminder sends a credit due-date reminder to a customer
func (s *Sender) SendPaymentReminder(to, customerName, storeName string, dueDate time.Time, remaining float64, isOverdue bool) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if isOverdue {
		e.Subject = "Overdue Credit Notification"
	} else {
		e.Subject = "Upcoming Credit Due Date Reminder"
	}

	body := fmt.Sprintf("Dear %s,\n\n", customerName)
	if isOverdue {
		body += fmt.Sprintf(
			"Your credit of %.2f at %s was due on %s and is now overdue.\n"+
				"Please settle the remaining balance as soon as possible.\n",
			remaining, storeName, dueDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that your credit balance of %.2f at %s is due on %s.\n",
			remaining, storeName, dueDate.Format("2006-01-02"),
		)
	}
	body += fmt.Sprintf("\nBest regards,\n%s", storeName)
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendPaymentReceipt sends a receipt after a payment is recorded
func (s *Sender) SendPaymentReceipt(to, customerName, storeName, receiptNumber string, amount, remaining float64) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Payment Receipt %s", receiptNumber)

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"We received your payment of %.2f at %s.\n"+
			"Receipt number: %s\n"+
			"Payment time: %s\n"+
			"Remaining balance: %.2f\n"+
			"\nBest regards,\n%s",
		customerName, amount, storeName, receiptNumber,
		time.Now().Format("2006-01-02 15:04:05"), remaining, storeName,
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
