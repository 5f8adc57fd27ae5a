package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"
)

// EmailSender delivers booking confirmation emails.
type EmailSender interface {
	SendBookingConfirmed(ctx context.Context, notification BookingConfirmedNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

const confirmationTemplate = `Hello {{.RecipientName}},

Your booking at {{.HotelName}} is confirmed.

Booking reference: {{.BookingRef}}
Hotel:             {{.HotelName}}, {{.HotelLocation}}
Check-in:          {{.CheckIn}}
Check-out:         {{.CheckOut}}
Nights:            {{.Nights}}
Rooms:             {{.Rooms}}
Total:             {{printf "%.2f" .TotalAmount}} {{.Currency}}

Keep this reference for your records. We look forward to your stay.

SmartLodge Bookings
`

type smtpSender struct {
	config   *SMTPConfig
	template *template.Template
}

func NewSMTPSender(config *SMTPConfig) (EmailSender, error) {
	if config.Host == "" || config.FromEmail == "" {
		return nil, fmt.Errorf("SMTP host and from address are required")
	}

	tmpl, err := template.New("booking-confirmed").Parse(confirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	return &smtpSender{
		config:   config,
		template: tmpl,
	}, nil
}

func (s *smtpSender) SendBookingConfirmed(ctx context.Context, notification BookingConfirmedNotification) error {
	var body bytes.Buffer
	if err := s.template.Execute(&body, notification); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Booking Confirmed - %s\r\n\r\n%s",
		s.config.FromEmail, notification.RecipientEmail, notification.BookingRef, body.String())

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return nil
}
