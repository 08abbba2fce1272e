package entity

import "time"

// Certificate representa un certificado emitido: el ID corto verificable
// (CertificateID), el emisor dueño (OwnerID) y el payload opaco por
// certificado (nombre, email del destinatario, curso, etc.).
type Certificate struct {
	ID            string // UUID interno de la fila
	CertificateID string // ID corto de 6 dígitos usado en URLs de verificación
	OwnerID       string // ID del emisor que lo creó
	TemplateID    string
	Payload       map[string]any
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Claves convencionales dentro del payload.
const (
	PayloadKeyEmail = "email"
	PayloadKeyName  = "name"
)

// RecipientEmail extrae el email del destinatario del payload; "" si no existe.
func (c *Certificate) RecipientEmail() string {
	return c.payloadString(PayloadKeyEmail)
}

// RecipientName extrae el nombre del destinatario del payload; "" si no existe.
func (c *Certificate) RecipientName() string {
	return c.payloadString(PayloadKeyName)
}

func (c *Certificate) payloadString(key string) string {
	if c.Payload == nil {
		return ""
	}
	v, ok := c.Payload[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
