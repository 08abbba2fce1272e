// Package email implementa el canal de notificaciones sobre SMTP (gomail).
package email

import (
	"context"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/vericert-api/internal/application/ports"
	"github.com/jhoicas/vericert-api/pkg/config"
	"github.com/jhoicas/vericert-api/pkg/logger"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer adaptador del puerto Mailer sobre SMTP. Los fallos de
// transporte se registran con detalle aquí y se devuelven como error simple;
// nunca se reintentan.
type SMTPMailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewSMTPMailer construye el adaptador SMTP.
func NewSMTPMailer(cfg config.SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// Send envía un correo de texto plano con adjuntos opcionales. Con SMTP sin
// configurar (entorno local) el envío se omite y solo queda en el log.
func (m *SMTPMailer) Send(_ context.Context, to, subject, body string, attachments ...ports.Attachment) error {
	if !m.cfg.Enabled() {
		m.log.Warn().Str("to", to).Str("subject", subject).Msg("SMTP no configurado: correo omitido")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, att := range attachments {
		content := att.Content
		msg.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("fallo de envío SMTP")
		return err
	}

	m.log.Info().Str("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}
