package certificate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/vericert-api/internal/application/dto"
	"github.com/jhoicas/vericert-api/internal/application/ports"
	"github.com/jhoicas/vericert-api/internal/domain"
	"github.com/jhoicas/vericert-api/internal/domain/entity"
	"github.com/jhoicas/vericert-api/internal/domain/repository"
	"github.com/jhoicas/vericert-api/pkg/logger"
)

// Config opciones del caso de uso de certificados.
type Config struct {
	BaseURL       string   // base para <BaseURL>/verify-certificate/<id>
	PublicFields  []string // proyección del payload en verificación pública; vacío = completo
	AttachSheet   bool     // adjuntar la hoja PDF en los correos
	MaxConcurrent int      // cota de envíos simultáneos en lote
}

// UseCase casos de uso de certificados: almacenamiento en lote, consulta
// del emisor, verificación pública y despacho por correo con QR.
type UseCase struct {
	certRepo repository.CertificateRepository
	mailer   ports.Mailer
	qr       QRRenderer
	sheets   SheetGenerator // puede ser nil si AttachSheet es false
	cfg      Config
	log      *logger.Logger
	metrics  Metrics
}

// Metrics contadores de negocio; una implementación vacía es válida.
type Metrics interface {
	CertificateIssued()
	VerificationResult(verified bool)
	DispatchResult(sent bool)
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) CertificateIssued()      {}
func (NopMetrics) VerificationResult(bool) {}
func (NopMetrics) DispatchResult(bool)     {}

// NewUseCase construye el caso de uso. sheets puede ser nil cuando no se
// adjunta PDF; metrics nil se reemplaza por NopMetrics.
func NewUseCase(certRepo repository.CertificateRepository, mailer ports.Mailer, qr QRRenderer, sheets SheetGenerator, cfg Config, log *logger.Logger, metrics Metrics) *UseCase {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &UseCase{
		certRepo: certRepo,
		mailer:   mailer,
		qr:       qr,
		sheets:   sheets,
		cfg:      cfg,
		log:      log,
		metrics:  metrics,
	}
}

// StoreBatch genera un ID corto por payload y persiste cada certificado en
// orden. No hay atomicidad entre elementos: un fallo a mitad de lote deja
// persistidos los anteriores. Si el ID sorteado colisiona con uno existente
// (índice único), se sortea de nuevo hasta maxIDAttempts veces.
func (uc *UseCase) StoreBatch(ctx context.Context, ownerID, templateID string, payloads []map[string]any) ([]*entity.Certificate, error) {
	if ownerID == "" || templateID == "" || len(payloads) == 0 {
		return nil, domain.ErrInvalidInput
	}

	saved := make([]*entity.Certificate, 0, len(payloads))
	for _, payload := range payloads {
		cert, err := uc.insertWithFreshID(ctx, ownerID, templateID, payload)
		if err != nil {
			return nil, err
		}
		uc.metrics.CertificateIssued()
		saved = append(saved, cert)
	}

	uc.log.Info().Str("owner_id", ownerID).Int("count", len(saved)).Msg("certificados almacenados")
	return saved, nil
}

func (uc *UseCase) insertWithFreshID(ctx context.Context, ownerID, templateID string, payload map[string]any) (*entity.Certificate, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		certID, err := randomCertID()
		if err != nil {
			return nil, err
		}
		now := time.Now()
		cert := &entity.Certificate{
			ID:            uuid.New().String(),
			CertificateID: certID,
			OwnerID:       ownerID,
			TemplateID:    templateID,
			Payload:       payload,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		err = uc.certRepo.Insert(ctx, cert)
		if err == nil {
			return cert, nil
		}
		if errors.Is(err, domain.ErrDuplicateCertificateID) {
			continue // colisión del sorteo: nuevo ID
		}
		return nil, err
	}
	return nil, fmt.Errorf("certificate_id: %d intentos agotados por colisión", maxIDAttempts)
}

// GetByID devuelve un certificado del emisor autenticado. Un ID existente de
// otro emisor responde igual que uno inexistente (ErrNotFound) para no
// revelar qué IDs existen bajo otros dueños.
func (uc *UseCase) GetByID(ctx context.Context, ownerID, certID string) (*entity.Certificate, error) {
	cert, err := uc.certRepo.FindByCertIDAndOwner(ctx, certID, ownerID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, domain.ErrNotFound
	}
	return cert, nil
}

// Verify verificación pública por ID, sin autenticación ni dueño. El payload
// expuesto se proyecta según cfg.PublicFields.
func (uc *UseCase) Verify(ctx context.Context, certID string) (*dto.VerifyResponse, error) {
	cert, err := uc.certRepo.FindByCertID(ctx, certID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		uc.metrics.VerificationResult(false)
		uc.log.Info().Str("certificate_id", certID).Msg("verificación fallida: no existe")
		return &dto.VerifyResponse{
			Message:  "Certificate not found",
			Verified: false,
		}, nil
	}
	uc.metrics.VerificationResult(true)
	uc.log.Info().Str("certificate_id", certID).Msg("certificado verificado")
	return &dto.VerifyResponse{
		Message:     "Certificate verified successfully",
		Verified:    true,
		Certificate: uc.toPublicResponse(cert),
	}, nil
}

// VerificationURL construye la URL pública determinista del certificado.
func (uc *UseCase) VerificationURL(certID string) string {
	return fmt.Sprintf("%s/verify-certificate/%s", uc.cfg.BaseURL, certID)
}

// SendWithQR despacha un certificado del emisor: genera el QR de la URL de
// verificación y lo envía por correo al destinatario del payload.
// ErrNotFound si no existe bajo ese dueño; ErrMissingRecipient si el payload
// no trae email.
func (uc *UseCase) SendWithQR(ctx context.Context, ownerID, certID string) (*dto.SendResponse, error) {
	cert, err := uc.certRepo.FindByCertIDAndOwner(ctx, certID, ownerID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.dispatch(ctx, cert); err != nil {
		return nil, err
	}
	return &dto.SendResponse{
		Message:         "QR code generated and email sent successfully",
		CertificateID:   certID,
		VerificationURL: uc.VerificationURL(certID),
	}, nil
}

// SendBatch despacha varios certificados con concurrencia acotada por
// cfg.MaxConcurrent. Cada elemento se procesa de forma independiente: el
// fallo de uno nunca afecta a los demás y el resultado se acumula en orden
// de terminación. Solo una lista vacía hace fallar la operación completa.
func (uc *UseCase) SendBatch(ctx context.Context, ownerID string, certIDs []string) (*dto.BatchResult, error) {
	if len(certIDs) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var (
		mu     sync.Mutex
		result = dto.BatchResult{
			Success: make([]string, 0, len(certIDs)),
			Failed:  make([]dto.BatchItemFailure, 0),
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.MaxConcurrent)
	for _, id := range certIDs {
		g.Go(func() error {
			reason := uc.sendOne(gctx, ownerID, id)
			mu.Lock()
			defer mu.Unlock()
			if reason == "" {
				result.Success = append(result.Success, id)
			} else {
				result.Failed = append(result.Failed, dto.BatchItemFailure{ID: id, Reason: reason})
			}
			// Nunca se propaga error: un elemento fallido no cancela el grupo.
			return nil
		})
	}
	_ = g.Wait()

	uc.log.Info().
		Str("owner_id", ownerID).
		Int("success", len(result.Success)).
		Int("failed", len(result.Failed)).
		Msg("lote de certificados procesado")
	return &result, nil
}

// sendOne procesa un elemento del lote y devuelve "" en éxito o la razón del
// fallo para el reporte por elemento.
func (uc *UseCase) sendOne(ctx context.Context, ownerID, certID string) string {
	cert, err := uc.certRepo.FindByCertIDAndOwner(ctx, certID, ownerID)
	if err != nil {
		uc.log.Error().Err(err).Str("certificate_id", certID).Msg("lote: consulta de certificado")
		return "Failed to process certificate"
	}
	if cert == nil {
		uc.metrics.DispatchResult(false)
		return "Certificate not found"
	}
	if err := uc.dispatch(ctx, cert); err != nil {
		if errors.Is(err, domain.ErrMissingRecipient) {
			return "Missing recipient email"
		}
		uc.log.Error().Err(err).Str("certificate_id", certID).Msg("lote: despacho de certificado")
		return "Failed to process certificate"
	}
	return ""
}

// dispatch genera QR (y hoja PDF si aplica) y envía el correo al destinatario.
func (uc *UseCase) dispatch(ctx context.Context, cert *entity.Certificate) error {
	recipient := cert.RecipientEmail()
	if recipient == "" {
		uc.metrics.DispatchResult(false)
		return domain.ErrMissingRecipient
	}

	url := uc.VerificationURL(cert.CertificateID)
	qrPNG, err := uc.qr.Render(url)
	if err != nil {
		uc.metrics.DispatchResult(false)
		return fmt.Errorf("render QR: %w", err)
	}

	attachments := []ports.Attachment{{
		Filename:    "certificate-qrcode.png",
		ContentType: "image/png",
		Content:     qrPNG,
	}}
	if uc.cfg.AttachSheet && uc.sheets != nil {
		sheet, err := uc.sheets.GenerateSheet(ctx, cert, url)
		if err != nil {
			uc.metrics.DispatchResult(false)
			return fmt.Errorf("generar hoja PDF: %w", err)
		}
		attachments = append(attachments, ports.Attachment{
			Filename:    "certificate.pdf",
			ContentType: "application/pdf",
			Content:     sheet,
		})
	}

	name := cert.RecipientName()
	if name == "" {
		name = "Recipient"
	}
	body := fmt.Sprintf(
		"Dear %s,\n\nYour certificate has been issued and is available at %s\n\nYou can also scan the attached QR code to view your certificate.\n\nBest regards,\nVeriCert Team",
		name, url,
	)

	if err := uc.mailer.Send(ctx, recipient, "Your Certificate from VeriCert", body, attachments...); err != nil {
		uc.metrics.DispatchResult(false)
		return fmt.Errorf("enviar correo: %w", err)
	}

	uc.metrics.DispatchResult(true)
	uc.log.Info().
		Str("certificate_id", cert.CertificateID).
		Str("recipient", recipient).
		Msg("certificado enviado con QR")
	return nil
}

// toPublicResponse arma la respuesta pública proyectando el payload según
// PublicFields; con la lista vacía se expone el payload completo.
func (uc *UseCase) toPublicResponse(cert *entity.Certificate) *dto.CertificateResponse {
	payload := cert.Payload
	if len(uc.cfg.PublicFields) > 0 {
		projected := make(map[string]any, len(uc.cfg.PublicFields))
		for _, field := range uc.cfg.PublicFields {
			if v, ok := cert.Payload[field]; ok {
				projected[field] = v
			}
		}
		payload = projected
	}
	return &dto.CertificateResponse{
		CertificateID: cert.CertificateID,
		OwnerID:       cert.OwnerID,
		TemplateID:    cert.TemplateID,
		Payload:       payload,
		CreatedAt:     cert.CreatedAt,
		UpdatedAt:     cert.UpdatedAt,
	}
}

// ToResponse arma la respuesta del emisor (payload completo, sin proyección).
func ToResponse(cert *entity.Certificate) *dto.CertificateResponse {
	return &dto.CertificateResponse{
		CertificateID: cert.CertificateID,
		OwnerID:       cert.OwnerID,
		TemplateID:    cert.TemplateID,
		Payload:       cert.Payload,
		CreatedAt:     cert.CreatedAt,
		UpdatedAt:     cert.UpdatedAt,
	}
}
