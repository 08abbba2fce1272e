package dto

import "time"

// StoreCertificatesRequest entrada para almacenar un lote de certificados.
// Cada elemento de Certificates es el payload opaco de un certificado
// (se esperan al menos "name" y "email" para poder despacharlo por correo).
type StoreCertificatesRequest struct {
	TemplateID   string           `json:"templateId" validate:"required"`
	Certificates []map[string]any `json:"certificates" validate:"required,min=1"`
}

// CertificateResponse salida de un certificado almacenado.
type CertificateResponse struct {
	CertificateID string         `json:"certificateId"`
	OwnerID       string         `json:"ownerId"`
	TemplateID    string         `json:"templateId"`
	Payload       map[string]any `json:"data"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// StoreCertificatesResponse salida del almacenamiento en lote.
type StoreCertificatesResponse struct {
	Message      string                `json:"message"`
	Certificates []CertificateResponse `json:"savedCertificates"`
}

// VerifyResponse salida de la verificación pública.
// Certificate solo se incluye cuando Verified es true, con el payload
// proyectado según la configuración.
type VerifyResponse struct {
	Message     string               `json:"message"`
	Verified    bool                 `json:"verified"`
	Certificate *CertificateResponse `json:"certificate,omitempty"`
}

// SendResponse salida del envío individual con QR.
type SendResponse struct {
	Message         string `json:"message"`
	CertificateID   string `json:"certificateId"`
	VerificationURL string `json:"verificationUrl"`
}

// SendBatchRequest entrada del envío en lote.
type SendBatchRequest struct {
	CertificateIDs []string `json:"certificateIds" validate:"required,min=1"`
}

// BatchItemFailure detalle de un elemento fallido del lote.
type BatchItemFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult resultado agregado del envío en lote. El orden de ambas listas
// es orden de terminación, no orden de entrada.
type BatchResult struct {
	Success []string           `json:"success"`
	Failed  []BatchItemFailure `json:"failed"`
}

// SendBatchResponse salida del envío en lote.
type SendBatchResponse struct {
	Message string      `json:"message"`
	Results BatchResult `json:"results"`
}
