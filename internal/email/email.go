package email

import (
	"context"
	"fmt"
	"time"

	"github.com/Albert91/deck-builder/internal/config"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	baseURL     string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		baseURL:     cfg.BaseURL,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

func (s *Service) SendWelcomeEmail(user *models.User) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := fmt.Sprintf("Welcome to Deck Builder, %s!", user.Username)
	htmlBody := s.generateWelcomeHTML(user)
	textBody := s.generateWelcomeText(user)

	return s.send(user.Email, subject, textBody, htmlBody)
}

// SendOTPEmail delivers a one-time login code. The code expires after ten
// minutes.
func (s *Service) SendOTPEmail(user *models.User, code string) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := "Your Deck Builder verification code"
	htmlBody := s.generateOTPHTML(user, code)
	textBody := s.generateOTPText(user, code)

	return s.send(user.Email, subject, textBody, htmlBody)
}

func (s *Service) SendPasswordResetEmail(user *models.User, token string) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
	subject := "Reset your Deck Builder password"
	htmlBody := s.generatePasswordResetHTML(user, resetURL)
	textBody := s.generatePasswordResetText(user, resetURL)

	return s.send(user.Email, subject, textBody, htmlBody)
}

func (s *Service) send(to, subject, textBody, htmlBody string) error {
	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		to,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logger.Info("Email sent",
		"email", to,
		"message_id", resp)
	return nil
}
