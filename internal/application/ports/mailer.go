package ports

import "context"

// Attachment adjunto binario de un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Mailer puerto del canal de notificaciones por correo. El envío es
// fire-and-forget desde el punto de vista del dominio: los fallos se
// registran en el log del adaptador y se propagan como error simple,
// nunca se reintentan.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string, attachments ...Attachment) error
}
