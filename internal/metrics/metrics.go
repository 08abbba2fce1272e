// Package metrics expone los contadores Prometheus de negocio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics colectores Prometheus de emisión, verificación y despacho.
type Metrics struct {
	CertificatesIssued prometheus.Counter
	Verifications      *prometheus.CounterVec
	Dispatches         *prometheus.CounterVec
}

// New registra y devuelve los colectores.
func New() *Metrics {
	return &Metrics{
		CertificatesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vericert_certificates_issued_total",
			Help: "Total number of certificates stored",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vericert_verifications_total",
			Help: "Total number of public verification lookups",
		}, []string{"result"}),
		Dispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vericert_dispatches_total",
			Help: "Total number of certificate email dispatch attempts",
		}, []string{"result"}),
	}
}

// CertificateIssued implementa certificate.Metrics.
func (m *Metrics) CertificateIssued() {
	m.CertificatesIssued.Inc()
}

// VerificationResult implementa certificate.Metrics.
func (m *Metrics) VerificationResult(verified bool) {
	m.Verifications.WithLabelValues(resultLabel(verified)).Inc()
}

// DispatchResult implementa certificate.Metrics.
func (m *Metrics) DispatchResult(sent bool) {
	m.Dispatches.WithLabelValues(resultLabel(sent)).Inc()
}

func resultLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
