// Package qr genera el código QR de la URL de verificación como imagen PNG.
package qr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	barcodeqr "github.com/boombuler/barcode/qr"

	"github.com/jhoicas/vericert-api/internal/application/certificate"
)

var _ certificate.QRRenderer = (*Renderer)(nil)

// Renderer generador de códigos QR (boombuler/barcode, el mismo motor que
// usa maroto internamente).
type Renderer struct {
	size int // lado en píxeles de la imagen cuadrada
}

// NewRenderer construye el generador; size <= 0 usa 256px.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = 256
	}
	return &Renderer{size: size}
}

// Render codifica la URL como QR (corrección de errores media) y devuelve el PNG.
func (r *Renderer) Render(url string) ([]byte, error) {
	code, err := barcodeqr.Encode(url, barcodeqr.M, barcodeqr.Auto)
	if err != nil {
		return nil, fmt.Errorf("codificar QR: %w", err)
	}
	scaled, err := barcode.Scale(code, r.size, r.size)
	if err != nil {
		return nil, fmt.Errorf("escalar QR: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("codificar PNG: %w", err)
	}
	return buf.Bytes(), nil
}
