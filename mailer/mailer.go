package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

// Config holds SMTP settings, read from env by ConfigFromEnv.
type Config struct {
	SMTPHost string
	SMTPPort int
	Email    string
	Password string
}

// ConfigFromEnv reads SMTP_SERVER, SMTP_PORT, EMAIL_ADDRESS and
// EMAIL_PASSWORD. Port defaults to the submission port.
func ConfigFromEnv() Config {
	port := 587
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		fmt.Sscanf(v, "%d", &port)
	}
	return Config{
		SMTPHost: os.Getenv("SMTP_SERVER"),
		SMTPPort: port,
		Email:    os.Getenv("EMAIL_ADDRESS"),
		Password: os.Getenv("EMAIL_PASSWORD"),
	}
}

// Mailer sends generated workbooks to the configured recipients.
type Mailer struct {
	config Config
}

func NewMailer(config Config) *Mailer {
	return &Mailer{config: config}
}

// Send delivers one plain-text message with the given attachments to
// to/cc/bcc. Bcc recipients go on the envelope only, never in headers.
func (m *Mailer) Send(subject, body string, to, cc, bcc []string, attachments []string) error {
	if m.config.SMTPHost == "" || m.config.Email == "" {
		return fmt.Errorf("mailer is not configured (SMTP_SERVER / EMAIL_ADDRESS)")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	message, err := m.buildMessage(subject, body, to, cc, attachments)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.config.SMTPHost, m.config.SMTPPort)
	auth := smtp.PlainAuth("", m.config.Email, m.config.Password, m.config.SMTPHost)

	all := make([]string, 0, len(to)+len(cc)+len(bcc))
	all = append(all, to...)
	all = append(all, cc...)
	all = append(all, bcc...)

	// smtp.SendMail negotiates STARTTLS when the server advertises it.
	if err := smtp.SendMail(addr, auth, m.config.Email, all, message); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

const mimeBoundary = "=_ingresos_report_boundary"

func (m *Mailer) buildMessage(subject, body string, to, cc []string, attachments []string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", m.config.Email)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	if len(cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(cc, ", "))
	}
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mimeBoundary)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")

	for _, path := range attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", path, err)
		}
		filename := filepath.Base(path)

		fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
		buf.WriteString("Content-Type: application/octet-stream\r\n")
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

		encoded := base64.StdEncoding.EncodeToString(data)
		// 76-char lines per RFC 2045.
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes(), nil
}
