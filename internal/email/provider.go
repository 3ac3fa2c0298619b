package email

// Email представляет структуру email сообщения
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData представляет данные для шаблонов писем
type TemplateData map[string]interface{}

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendVerification отправляет письмо верификации
	SendVerification(to, name, token string) error

	// SendPasswordReset отправляет письмо сброса пароля
	SendPasswordReset(to, name, token string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}
