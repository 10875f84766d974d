package notifications

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gopkg.in/gomail.v2"

	"github.com/sahuajaykumar2004-dot/EP/domain"
)

// Service implements domain.NotificationService. SMS goes out through
// Twilio, email through SMTP. Either side may be left unconfigured, in
// which case the message is logged instead of sent.
type Service struct {
	sms        *twilio.RestClient
	fromNumber string

	dialer    *gomail.Dialer
	fromEmail string
}

// SMTPConfig holds the SMTP relay settings for outgoing email.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewService creates the combined SMS and email notification service
func NewService(accountSID, authToken, fromNumber string, smtp SMTPConfig) domain.NotificationService {
	s := &Service{fromNumber: fromNumber, fromEmail: smtp.From}

	if accountSID != "" {
		s.sms = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
	}
	if smtp.Host != "" {
		s.dialer = gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	}

	return s
}

// SendSMS implements domain.NotificationService
func (s *Service) SendSMS(to, message string) error {
	if s.sms == nil || s.fromNumber == "" {
		log.Printf("[MOCK SMS] To: %s, Message: %s", to, message)
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	if _, err := s.sms.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

// SendEmail implements domain.NotificationService
func (s *Service) SendEmail(to, subject, body string) error {
	if s.dialer == nil {
		log.Printf("[MOCK EMAIL] To: %s, Subject: %s, Body: %s", to, subject, body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.fromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
