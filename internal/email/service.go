package email

import (
	"fmt"
	"mime"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
		send: smtp.SendMail,
	}
}

// SendOrderConfirmation sends an order confirmation email
func (s *Service) SendOrderConfirmation(to string, data OrderConfirmation) error {
	shortID := data.OrderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	data.PaymentMethod = PaymentMethodName(data.PaymentMethod)

	body, err := BuildOrderConfirmationBody(data)
	if err != nil {
		return fmt.Errorf("render order confirmation: %w", err)
	}
	subject := fmt.Sprintf("Xác nhận đơn hàng #%s", shortID)
	return s.sendMail(to, subject, body)
}

func (s *Service) sendMail(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, mime.QEncoding.Encode("utf-8", subject), body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.send(addr, nil, s.from, []string{to}, []byte(msg))
}
