package app

import (
	"resumehub/internal/email"
	"resumehub/internal/logger"
)

// logEmailProvider пишет письма в лог вместо отправки.
// Используется при отсутствии SMTP-конфигурации (локальная разработка).
type logEmailProvider struct{}

func (p *logEmailProvider) Send(e *email.Email) error {
	logger.Info("Email (not sent)", "to", e.To, "subject", e.Subject)
	return nil
}

func (p *logEmailProvider) SendVerification(to, name, token string) error {
	logger.Info("Verification email (not sent)", "to", to, "token", token)
	return nil
}

func (p *logEmailProvider) SendPasswordReset(to, name, token string) error {
	logger.Info("Password reset email (not sent)", "to", to, "token", token)
	return nil
}

func (p *logEmailProvider) Validate() error {
	return nil
}
