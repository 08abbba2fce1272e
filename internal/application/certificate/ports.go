package certificate

import (
	"context"

	"github.com/jhoicas/vericert-api/internal/domain/entity"
)

// QRRenderer puerto del generador de códigos QR. Devuelve la imagen PNG.
type QRRenderer interface {
	Render(url string) ([]byte, error)
}

// SheetGenerator puerto del generador de la hoja PDF del certificado
// (representación imprimible con el QR de verificación embebido).
type SheetGenerator interface {
	GenerateSheet(ctx context.Context, cert *entity.Certificate, verificationURL string) ([]byte, error)
}
