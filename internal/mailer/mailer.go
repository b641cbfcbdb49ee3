package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Message is a single transactional email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender implements Sender over plain SMTP.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender builds a sender from SMTP_* environment variables.
func NewSMTPSender() *SMTPSender {
	addr := os.Getenv("SMTP_ADDR")
	if addr == "" {
		addr = "localhost:587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@teslys.app"
	}

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		host := addr
		if i := strings.LastIndex(addr, ":"); i != -1 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	return &SMTPSender{addr: addr, from: from, auth: auth}
}

// Send delivers one message.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	data := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, msg.To, msg.Subject, msg.Body))

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, data); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// CampaignResult accounts for a campaign fan-out.
type CampaignResult struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// SendCampaign fans a campaign out to every recipient. Failures are counted
// and logged, never retried; one bad address does not stop the rest.
func SendCampaign(ctx context.Context, sender Sender, recipients []string, subject, body string) CampaignResult {
	result := CampaignResult{}
	for _, to := range recipients {
		err := sender.Send(ctx, Message{To: to, Subject: subject, Body: body})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			log.WithError(err).WithField("recipient", to).Error("Campaign send failed")
			continue
		}
		result.Sent++
	}

	log.WithFields(log.Fields{
		"sent":   result.Sent,
		"failed": result.Failed,
	}).Info("Campaign delivery completed")

	return result
}
