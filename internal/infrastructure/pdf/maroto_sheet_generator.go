// Package pdf implementa la hoja imprimible del certificado.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: VeriCert + ID del certificado                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CUERPO: "Certificate of Achievement" + nombre destinatario  │
//	│  DETALLES: campos del payload (curso, fecha, etc.)           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + URL pública                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appcert "github.com/jhoicas/vericert-api/internal/application/certificate"
	"github.com/jhoicas/vericert-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 16, Green: 78, Blue: 139}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appcert.SheetGenerator = (*MarotoSheetGenerator)(nil)

// MarotoSheetGenerator implementa certificate.SheetGenerator usando Maroto v2.
type MarotoSheetGenerator struct{}

// NewMarotoSheetGenerator construye el generador.
func NewMarotoSheetGenerator() *MarotoSheetGenerator { return &MarotoSheetGenerator{} }

// GenerateSheet genera el PDF del certificado y devuelve sus bytes.
func (g *MarotoSheetGenerator) GenerateSheet(_ context.Context, cert *entity.Certificate, verificationURL string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 11}).
		WithTitle("VeriCert Certificate "+cert.CertificateID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(cert))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.6}))
	m.AddRows(titleRows(cert)...)
	m.AddRows(detailRows(cert)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(cert, verificationURL))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: marca VeriCert (izq) e ID del certificado (der).
func headerRow(cert *entity.Certificate) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("VeriCert", props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(6).Add(
			text.New("Certificate ID: "+cert.CertificateID, props.Text{
				Size: 11, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Issued: "+cert.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// titleRows: título del documento + nombre del destinatario en grande.
func titleRows(cert *entity.Certificate) []core.Row {
	name := cert.RecipientName()
	if name == "" {
		name = "Recipient"
	}
	return []core.Row{
		row.New(16).Add(
			col.New(12).Add(
				text.New("Certificate of Achievement", props.Text{
					Size: 14, Align: align.Center, Top: 6, Color: colorGray,
				}),
			),
		),
		row.New(18).Add(
			col.New(12).Add(
				text.New(name, props.Text{
					Style: fontstyle.Bold, Size: 26, Align: align.Center, Top: 2, Color: colorPrimary,
				}),
			),
		),
	}
}

// detailRows: campos restantes del payload, ordenados por clave para que la
// hoja sea determinista. Email y nombre ya aparecen en otras secciones.
func detailRows(cert *entity.Certificate) []core.Row {
	keys := make([]string, 0, len(cert.Payload))
	for k := range cert.Payload {
		if k == entity.PayloadKeyName || k == entity.PayloadKeyEmail {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]core.Row, 0, len(keys))
	for _, k := range keys {
		v, _ := cert.Payload[k].(string)
		if v == "" {
			v = fmt.Sprintf("%v", cert.Payload[k])
		}
		rows = append(rows, row.New(8).Add(
			col.New(4).Add(
				text.New(k, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorGray}),
			),
			col.New(8).Add(
				text.New(v, props.Text{Size: 10, Left: 3}),
			),
		))
	}
	return rows
}

// footerRow: QR de verificación + URL pública y plantilla usada.
func footerRow(cert *entity.Certificate, verificationURL string) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(verificationURL, props.Rect{
			Center:  false,
			Percent: 90,
		})),
		col.New(9).Add(
			text.New("Scan the QR code or visit the link below to verify this certificate:", props.Text{
				Size: 9, Top: 4, Color: colorGray,
			}),
			text.New(verificationURL, props.Text{
				Size: 9, Top: 10, Color: colorPrimary,
			}),
			text.New("Template: "+cert.TemplateID, props.Text{
				Size: 8, Top: 18, Color: colorGray,
			}),
		),
	)
}
