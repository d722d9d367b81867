package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Dialer - часть gomail.Dialer, нужная провайдеру
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config   *SMTPConfig
	dialer   Dialer
	renderer TemplateRenderer
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig, renderer TemplateRenderer) *SMTPProvider {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	return &SMTPProvider{
		config:   config,
		dialer:   dialer,
		renderer: renderer,
	}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	if err := p.dialer.DialAndSend(p.buildMessage(email)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerification отправляет письмо подтверждения по шаблону
func (p *SMTPProvider) SendVerification(to, username, verificationURL string) error {
	data := TemplateData{
		"Username":        username,
		"VerificationURL": verificationURL,
	}

	msg := &Email{
		To:      []string{to},
		Subject: "Confirma tu email en FishLog",
		Body:    fmt.Sprintf("Hola %s, confirma tu email: %s", username, verificationURL),
	}

	if p.renderer != nil {
		html, err := p.renderer.Render(TemplateVerification, data)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		msg.HTMLBody = html
	}
	return p.Send(msg)
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}
	if p.config.FromEmail == "" {
		return fmt.Errorf("sender address is required")
	}
	return nil
}

func (p *SMTPProvider) buildMessage(email *Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	} else {
		m.SetBody("text/plain", email.Body)
	}
	return m
}
