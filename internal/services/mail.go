package services

import (
	"fmt"
	"net"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/logger"
)

// MailService delivers OTP codes over SMTP. Delivery is best-effort: a
// failure here never rolls back the verification record.
type MailService struct {
	host     string
	port     string
	username string
	password string
	from     string
	otpTTL   time.Duration
}

// NewMailService constructs a MailService from config.
func NewMailService(cfg *config.Config) *MailService {
	return &MailService{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		otpTTL:   cfg.OTPExpires,
	}
}

// Enabled reports whether SMTP delivery is configured.
func (s *MailService) Enabled() bool {
	return s.host != ""
}

// SendOTP emails the verification code to the given address.
func (s *MailService) SendOTP(to string, code int) error {
	if !s.Enabled() {
		logger.L().Info("smtp not configured, skipping OTP mail", zap.String("to", to))
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Your verification code\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
			"Your verification code is %d. It expires in %d minutes.\r\n",
		s.from, to, code, int(s.otpTTL.Minutes()),
	)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	addr := net.JoinHostPort(s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
