package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Merenda-api/internal/application/billing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ billing.Metrics = (*BillingMetrics)(nil)

// BillingMetrics contadores e histogramas del motor de faturamento.
type BillingMetrics struct {
	registry *prometheus.Registry

	BillingsGenerated   prometheus.Counter
	GenerationDuration  prometheus.Histogram
	BillingItems        prometheus.Histogram
	BillingsRejected    *prometheus.CounterVec
	ItemsExcludedTotal  *prometheus.CounterVec
	ConsumptionItems    *prometheus.CounterVec
	ModalityRemovals    prometheus.Counter
	RedistributedQtyTot prometheus.Counter
}

// New crea y registra las métricas en un registry propio (más las del runtime de Go).
func New() *BillingMetrics {
	reg := prometheus.NewRegistry()
	m := &BillingMetrics{
		registry: reg,
		BillingsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merenda_billings_generated_total",
			Help: "Faturamentos generados",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "merenda_billing_generation_duration_seconds",
			Help:    "Duración de la transacción de generación",
			Buckets: prometheus.DefBuckets,
		}),
		BillingItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "merenda_billing_items",
			Help:    "Ítems persistidos por faturamento",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		BillingsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merenda_billings_rejected_total",
			Help: "Generaciones rechazadas por motivo",
		}, []string{"reason"}),
		ItemsExcludedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merenda_billing_items_excluded_total",
			Help: "Ítems del pedido excluidos del faturamento",
		}, []string{"reason"}),
		ConsumptionItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "merenda_consumption_items_total",
			Help: "Ítems con consumo registrado o estornado",
		}, []string{"operation"}),
		ModalityRemovals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merenda_modality_removals_total",
			Help: "Modalidades retiradas de faturamentos",
		}),
		RedistributedQtyTot: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "merenda_redistributed_quantity_total",
			Help: "Cantidad redistribuida a otras modalidades",
		}),
	}
	reg.MustRegister(
		m.BillingsGenerated, m.GenerationDuration, m.BillingItems, m.BillingsRejected,
		m.ItemsExcludedTotal, m.ConsumptionItems, m.ModalityRemovals, m.RedistributedQtyTot,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry expone el registry (tests y handler).
func (m *BillingMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler endpoint de scrape para Fiber.
func (m *BillingMetrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// BillingGenerated las exclusiones se cuentan por motivo en ItemsExcluded.
func (m *BillingMetrics) BillingGenerated(items, _ int, elapsed time.Duration) {
	m.BillingsGenerated.Inc()
	m.GenerationDuration.Observe(elapsed.Seconds())
	m.BillingItems.Observe(float64(items))
}

func (m *BillingMetrics) BillingRejected(reason string) {
	m.BillingsRejected.WithLabelValues(reason).Inc()
}

func (m *BillingMetrics) ItemsExcluded(reason string, n int) {
	if n <= 0 {
		return
	}
	m.ItemsExcludedTotal.WithLabelValues(reason).Add(float64(n))
}

func (m *BillingMetrics) ConsumptionChanged(op string, items int) {
	m.ConsumptionItems.WithLabelValues(op).Add(float64(items))
}

func (m *BillingMetrics) ModalityRemoved(items int, quantity int64) {
	m.ModalityRemovals.Inc()
	m.RedistributedQtyTot.Add(float64(quantity))
}
