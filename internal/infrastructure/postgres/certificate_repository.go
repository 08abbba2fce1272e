package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/vericert-api/internal/domain"
	"github.com/jhoicas/vericert-api/internal/domain/entity"
	"github.com/jhoicas/vericert-api/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

// CertificateRepo implementación del puerto CertificateRepository sobre
// PostgreSQL. El payload opaco se guarda como JSONB.
type CertificateRepo struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository construye el adaptador de persistencia para certificados.
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepo {
	return &CertificateRepo{pool: pool}
}

// Insert persiste un certificado. Una violación del índice único de
// certificate_id se mapea a ErrDuplicateCertificateID para que el caso de
// uso pueda sortear un ID nuevo.
func (r *CertificateRepo) Insert(ctx context.Context, cert *entity.Certificate) error {
	payload, err := json.Marshal(cert.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	query := `
		INSERT INTO certificates (id, certificate_id, owner_id, template_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.pool.Exec(ctx, query,
		cert.ID, cert.CertificateID, cert.OwnerID, cert.TemplateID, payload,
		cert.CreatedAt, cert.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCertificateID
		}
		return fmt.Errorf("insert certificate: %w", err)
	}
	return nil
}

// FindByCertID busca por ID corto sin restricción de dueño (verificación
// pública); (nil, nil) si no existe.
func (r *CertificateRepo) FindByCertID(ctx context.Context, certID string) (*entity.Certificate, error) {
	return r.findOne(ctx, `WHERE certificate_id = $1`, certID)
}

// FindByCertIDAndOwner busca por ID corto y dueño. Un ID existente bajo otro
// dueño devuelve (nil, nil), igual que uno inexistente.
func (r *CertificateRepo) FindByCertIDAndOwner(ctx context.Context, certID, ownerID string) (*entity.Certificate, error) {
	return r.findOne(ctx, `WHERE certificate_id = $1 AND owner_id = $2`, certID, ownerID)
}

func (r *CertificateRepo) findOne(ctx context.Context, where string, args ...any) (*entity.Certificate, error) {
	query := `
		SELECT id, certificate_id, owner_id, template_id, payload, created_at, updated_at
		FROM certificates ` + where + ` LIMIT 1`
	var (
		c       entity.Certificate
		payload []byte
	)
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.CertificateID, &c.OwnerID, &c.TemplateID, &payload,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &c.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	return &c, nil
}
