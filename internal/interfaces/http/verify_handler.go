package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vericert-api/internal/application/certificate"
	"github.com/jhoicas/vericert-api/internal/application/dto"
)

// VerifyHandler maneja la verificación pública de certificados (sin auth).
type VerifyHandler struct {
	uc *certificate.UseCase
}

// NewVerifyHandler construye el handler público de verificación.
func NewVerifyHandler(uc *certificate.UseCase) *VerifyHandler {
	return &VerifyHandler{uc: uc}
}

// Verify godoc
// @Summary      Verificar un certificado por su ID (público)
// @Tags         verify
// @Produce      json
// @Param        id   path  string  true  "ID corto del certificado"
// @Success      200  {object}  dto.VerifyResponse
// @Failure      404  {object}  dto.VerifyResponse
// @Router       /api/verify-certificate/{id} [get]
func (h *VerifyHandler) Verify(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Verify(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}
	if !out.Verified {
		return c.Status(fiber.StatusNotFound).JSON(out)
	}
	return c.JSON(out)
}
