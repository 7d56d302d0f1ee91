package services

import (
	"fmt"
	"net/smtp"

	"itrportal/internal/config"
)

// EmailService sends transactional mail over plain SMTP
type EmailService struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.EmailFrom,
	}
}

func (s *EmailService) SendEmail(to, subject, htmlBody string) error {
	if s.host == "" || s.user == "" || s.password == "" {
		return fmt.Errorf("SMTP credentials not fully configured")
	}

	auth := smtp.PlainAuth("", s.user, s.password, s.host)

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", to, subject, htmlBody))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
