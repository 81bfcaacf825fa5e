package utils

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"gopkg.in/gomail.v2"
)

// Mailer sends email through the configured SMTP server.
type Mailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func NewMailer(host string, port int, username, password string) *Mailer {
	return &Mailer{Host: host, Port: port, Username: username, Password: password}
}

// SendCSV emails a CSV attachment to a single recipient.
func (m *Mailer) SendCSV(to, subject, body, filename string, data []byte) error {
	if m.Username == "" {
		return fmt.Errorf("smtp not configured")
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.Username)
	mailer.SetHeader("To", to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/plain", body)
	mailer.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	}))

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)
	if err := dialer.DialAndSend(mailer); err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Email sent successfully to %s", to)
	return nil
}
