package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/AryanSachan1st/Blog-Application-for-Vit-Chennai/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const otpSubject = "Your verification code"

// OTPSender delivers signup verification codes over SMTP.
type OTPSender struct {
	cfg    config.SMTPConfig
	otpTTL time.Duration
	logger *zap.Logger
	send   func(m *gomail.Message) error
}

func NewSMTPSender(cfg config.SMTPConfig, otpTTL time.Duration, logger *zap.Logger) (*OTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = cfg.Host
	}

	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}

	return &OTPSender{
		cfg:    cfg,
		otpTTL: otpTTL,
		logger: logger.Named("OTPSender"),
		send:   func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}, nil
}

func (s *OTPSender) buildMessage(to, code string) *gomail.Message {
	minutes := int(s.otpTTL.Minutes())

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.SenderEmail, s.cfg.SenderName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", otpSubject)
	m.SetBody("text/plain", fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, minutes))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes))
	return m
}

func (s *OTPSender) SendOTP(ctx context.Context, to, code string) error {
	if to == "" {
		return fmt.Errorf("no recipient provided for OTP email")
	}
	m := s.buildMessage(to, code)

	done := make(chan error, 1)
	go func() {
		done <- s.send(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("OTP email cancelled or timed out", zap.String("to", to), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send OTP email", zap.String("to", to), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.logger.Info("OTP email sent", zap.String("to", to))
	return nil
}
