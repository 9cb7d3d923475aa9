package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"classbook-backend/internal/config"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &sendGridEmailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *sendGridEmailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *sendGridEmailService) SendBookingConfirmation(ctx context.Context, to, name, className string, startTime time.Time) error {
	subject := fmt.Sprintf("Booking Confirmed: %s", className)
	body := fmt.Sprintf("Hi %s,\n\nYou are booked into %s on %s. See you there!",
		name, className, startTime.Format("Monday, Jan 2 at 15:04"))
	return s.send(to, name, subject, body)
}

func (s *sendGridEmailService) SendWaitlistNotification(ctx context.Context, to, name, className string, position int32) error {
	subject := fmt.Sprintf("Waitlisted: %s", className)
	body := fmt.Sprintf("Hi %s,\n\n%s is currently full. You are number %d on the waitlist and will be booked automatically if a spot opens up. No credits have been charged.",
		name, className, position)
	return s.send(to, name, subject, body)
}

func (s *sendGridEmailService) SendPromotionNotification(ctx context.Context, to, name, className string, startTime time.Time) error {
	subject := fmt.Sprintf("You're In: %s", className)
	body := fmt.Sprintf("Hi %s,\n\nA spot opened up and you are now booked into %s on %s.",
		name, className, startTime.Format("Monday, Jan 2 at 15:04"))
	return s.send(to, name, subject, body)
}

func (s *sendGridEmailService) SendCancellationNotification(ctx context.Context, to, name, className string, refunded bool) error {
	subject := fmt.Sprintf("Booking Cancelled: %s", className)
	body := fmt.Sprintf("Hi %s,\n\nYour booking for %s has been cancelled.", name, className)
	if refunded {
		body += " Your credits have been refunded to your package."
	}
	return s.send(to, name, subject, body)
}

func (s *sendGridEmailService) SendClassReminder(ctx context.Context, to, name, className string, startTime time.Time, location string) error {
	subject := fmt.Sprintf("Reminder: %s", className)
	body := fmt.Sprintf("Hi %s,\n\n%s starts at %s.", name, className, startTime.Format("15:04"))
	if location != "" {
		body += fmt.Sprintf(" Location: %s.", location)
	}
	body += " Remember to check in when you arrive."
	return s.send(to, name, subject, body)
}

func (s *sendGridEmailService) SendPurchaseReceipt(ctx context.Context, to, name, packageName string, credits int32, expiryDate time.Time) error {
	subject := fmt.Sprintf("Receipt: %s", packageName)
	body := fmt.Sprintf("Hi %s,\n\nThanks for your purchase. %s gives you %d credits, valid until %s.",
		name, packageName, credits, expiryDate.Format("January 2, 2006"))
	return s.send(to, name, subject, body)
}
