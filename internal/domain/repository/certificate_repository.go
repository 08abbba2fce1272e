package repository

import (
	"context"

	"github.com/jhoicas/vericert-api/internal/domain/entity"
)

// CertificateRepository define el puerto de persistencia para Certificate.
//
// FindByCertID busca solo por ID corto (verificación pública).
// FindByCertIDAndOwner exige además el dueño: un ID existente de otro emisor
// se responde igual que uno inexistente, (nil, nil).
type CertificateRepository interface {
	Insert(ctx context.Context, cert *entity.Certificate) error
	FindByCertID(ctx context.Context, certID string) (*entity.Certificate, error)
	FindByCertIDAndOwner(ctx context.Context, certID, ownerID string) (*entity.Certificate, error)
}
