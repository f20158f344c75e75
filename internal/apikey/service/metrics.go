package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation outcomes.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultExpired = "expired"
	ResultError   = "error"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	keysCreated        prometheus.Counter
	keysRevoked        prometheus.Counter
	keysDeleted        prometheus.Counter
	validations        *prometheus.CounterVec
	validationDuration prometheus.Histogram

	inventory *prometheus.GaugeVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		keysCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: "apikey",
			Name:      "keys_created_total",
			Help:      "Total number of API keys issued",
		}),
		keysRevoked: f.NewCounter(prometheus.CounterOpts{
			Namespace: "apikey",
			Name:      "keys_revoked_total",
			Help:      "Total number of API keys revoked",
		}),
		keysDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "apikey",
			Name:      "keys_deleted_total",
			Help:      "Total number of API keys deleted",
		}),
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apikey",
			Name:      "validations_total",
			Help:      "Total number of presented API keys checked, by result",
		}, []string{"result"}),
		validationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "apikey",
			Name:      "validation_duration_seconds",
			Help:      "Time spent checking a presented API key",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		inventory: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "apikey",
			Name:      "keys",
			Help:      "Stored API keys by state, as of the last inventory run",
		}, []string{"state"}),
	}
}

func (m *Metrics) created() {
	if m != nil {
		m.keysCreated.Inc()
	}
}

func (m *Metrics) revoked() {
	if m != nil {
		m.keysRevoked.Inc()
	}
}

func (m *Metrics) deleted() {
	if m != nil {
		m.keysDeleted.Inc()
	}
}

func (m *Metrics) validation(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(result).Inc()
	m.validationDuration.Observe(d.Seconds())
}

func (m *Metrics) setInventory(inv Inventory) {
	if m == nil {
		return
	}
	m.inventory.WithLabelValues("total").Set(float64(inv.Total))
	m.inventory.WithLabelValues("usable").Set(float64(inv.Usable))
	m.inventory.WithLabelValues("expired").Set(float64(inv.Expired))
	m.inventory.WithLabelValues("revoked").Set(float64(inv.Revoked))
}
