package services

import (
	"fmt"
	"html"
	"net/smtp"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

// Send is a no-op when SMTP is not configured.
func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(s.compose(to, subject, body)))
}

func (s *EmailService) compose(to, subject, body string) string {
	return fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)
}

func passwordResetBody(link string) string {
	escaped := html.EscapeString(link)
	return fmt.Sprintf(`
		<html>
		<body>
			<h2>Redefinição de senha</h2>
			<p>Olá,</p>
			<p>Recebemos um pedido para redefinir a senha da sua conta no Cuidado Mais Família.</p>
			<p><a href="%s">Toque aqui para escolher uma nova senha</a></p>
			<p>Se você não fez esse pedido, ignore este e-mail.</p>
		</body>
		</html>
	`, escaped)
}

func (s *EmailService) SendPasswordReset(to, link string) error {
	return s.Send(to, "Redefinição de senha - Cuidado Mais Família", passwordResetBody(link))
}
