package services

import (
	"fmt"
	"time"

	"bankingProject/config"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// EmailService предоставляет методы для отправки email
type EmailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailService создает новый экземпляр EmailService
func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Username,
		cfg.SMTP.Password,
	)

	return &EmailService{
		dialer: dialer,
		from:   cfg.SMTP.From,
	}
}

// SendEmail отправляет email
func (s *EmailService) SendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("ошибка отправки email: %v", err)
	}

	return nil
}

// SendTransactionNotification отправляет уведомление об операции по счету
func (s *EmailService) SendTransactionNotification(to, accountNumber string, amount decimal.Decimal, operation string) error {
	subject := "Уведомление об операции по счету"
	body := fmt.Sprintf(`
		<h2>Уведомление об операции</h2>
		<p>Счет: %s</p>
		<p>Тип операции: %s</p>
		<p>Сумма: %s</p>
		<p>Дата: %s</p>
	`, accountNumber, operation, amount.StringFixed(2), time.Now().UTC().Format("02.01.2006 15:04:05"))

	return s.SendEmail(to, subject, body)
}

// SendWelcomeNotification отправляет приветственное письмо после регистрации
func (s *EmailService) SendWelcomeNotification(to, username string) error {
	subject := "Добро пожаловать"
	body := fmt.Sprintf(`
		<h2>Добро пожаловать, %s!</h2>
		<p>Ваша учетная запись успешно создана.</p>
		<p>Спасибо, что выбрали наш банк!</p>
	`, username)

	return s.SendEmail(to, subject, body)
}
