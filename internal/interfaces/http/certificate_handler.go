package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vericert-api/internal/application/certificate"
	"github.com/jhoicas/vericert-api/internal/application/dto"
	"github.com/jhoicas/vericert-api/internal/domain"
)

// CertificateHandler maneja las operaciones de certificados del emisor
// autenticado: almacenamiento en lote, consulta y despacho con QR.
type CertificateHandler struct {
	uc *certificate.UseCase
}

// NewCertificateHandler construye el handler.
func NewCertificateHandler(uc *certificate.UseCase) *CertificateHandler {
	return &CertificateHandler{uc: uc}
}

// Store godoc
// @Summary      Almacenar certificados en lote
// @Tags         issuer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StoreCertificatesRequest  true  "templateId + lista de payloads"
// @Success      201   {object}  dto.StoreCertificatesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/issuer/certificates [post]
func (h *CertificateHandler) Store(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	var in dto.StoreCertificatesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TemplateID == "" || len(in.Certificates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "templateId y certificates son requeridos"})
	}
	saved, err := h.uc.StoreBatch(c.Context(), ownerID, in.TemplateID, in.Certificates)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lote inválido"})
		}
		return internalError(c, err)
	}
	out := dto.StoreCertificatesResponse{
		Message:      "Certificates stored successfully",
		Certificates: make([]dto.CertificateResponse, 0, len(saved)),
	}
	for _, cert := range saved {
		out.Certificates = append(out.Certificates, *certificate.ToResponse(cert))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener certificado por ID (del emisor autenticado)
// @Tags         issuer
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID corto del certificado"
// @Success      200  {object}  dto.CertificateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issuer/certificates/{id} [get]
func (h *CertificateHandler) GetByID(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	id := c.Params("id")
	cert, err := h.uc.GetByID(c.Context(), ownerID, id)
	if err != nil {
		// Inexistente y de otro dueño responden idéntico.
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "certificado no encontrado"})
		}
		return internalError(c, err)
	}
	return c.JSON(fiber.Map{"certificate": certificate.ToResponse(cert)})
}

// SendWithQR godoc
// @Summary      Generar QR y enviar el certificado por correo
// @Tags         issuer
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID corto del certificado"
// @Success      200  {object}  dto.SendResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/issuer/certificates/{id}/qr [get]
func (h *CertificateHandler) SendWithQR(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	id := c.Params("id")
	out, err := h.uc.SendWithQR(c.Context(), ownerID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "certificado no encontrado"})
		}
		if errors.Is(err, domain.ErrMissingRecipient) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_RECIPIENT", Message: "el certificado no tiene email de destinatario"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// SendBatch godoc
// @Summary      Enviar certificados en lote con QR por correo
// @Tags         issuer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendBatchRequest  true  "IDs de certificados"
// @Success      200   {object}  dto.SendBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/issuer/certificates/send-batch [post]
func (h *CertificateHandler) SendBatch(c *fiber.Ctx) error {
	ownerID := GetUserID(c)
	if ownerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "user_id requerido"})
	}
	var in dto.SendBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.CertificateIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "certificateIds vacío o inválido"})
	}
	results, err := h.uc.SendBatch(c.Context(), ownerID, in.CertificateIDs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "certificateIds vacío o inválido"})
		}
		return internalError(c, err)
	}
	return c.JSON(dto.SendBatchResponse{
		Message: "Batch processing completed",
		Results: *results,
	})
}
