// Package metrics registra los contadores del catálogo en un registry de Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Catalogo-api/internal/application/lifecycle"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/docstore"
)

const namespace = "catalog"

var (
	_ lifecycle.Observer      = (*Recorder)(nil)
	_ docstore.RetryObserver = (*Recorder)(nil)
)

// Recorder implementa los observers del motor y de los stores.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	skipped    *prometheus.CounterVec
	retries    *prometheus.CounterVec
}

// NewRecorder crea un registry propio con los colectores de proceso y Go más los del catálogo.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_operations_total",
			Help:      "Operaciones del ciclo de vida por colección, operación y resultado.",
		}, []string{"collection", "operation", "outcome"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_skipped_total",
			Help:      "Documentos omitidos en listados por no validar.",
		}, []string{"collection"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_tx_retries_total",
			Help:      "Transacciones reintentadas por conflicto de serialización o bloqueo.",
		}, []string{"driver"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.operations, r.skipped, r.retries,
	)
	return r
}

func (r *Recorder) Outcome(collection, operation, outcome string) {
	r.operations.WithLabelValues(collection, operation, outcome).Inc()
}

func (r *Recorder) DocumentSkipped(collection string) {
	r.skipped.WithLabelValues(collection).Inc()
}

func (r *Recorder) TransactionRetried(driver string) {
	r.retries.WithLabelValues(driver).Inc()
}

// Registry expone el registry (tests y colectores extra).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler handler HTTP del formato de exposición.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
