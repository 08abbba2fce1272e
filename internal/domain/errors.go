package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrUserNotFound            = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists      = errors.New("el email ya está registrado")
	ErrUsernameAlreadyExists   = errors.New("el username ya está registrado")
	ErrDuplicateCertificateID  = errors.New("certificate_id duplicado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrUnauthorized            = errors.New("no autorizado")
	ErrForbidden               = errors.New("acceso denegado")
	ErrMissingRecipient        = errors.New("el certificado no tiene email de destinatario")
)
