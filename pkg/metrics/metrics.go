// Package metrics expone las métricas Prometheus de la API: tráfico HTTP, ventas y movimientos de stock.
//
// Cada instancia tiene su propio registro, así los tests no comparten estado
// con el registro global. Todos los métodos aceptan un receptor nil (no-op).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Motivos de venta rechazada.
const (
	ReasonValidation   = "validation"
	ReasonNotFound     = "not_found"
	ReasonUnavailable  = "unavailable"
	ReasonInsufficient = "insufficient_stock"
	ReasonPersistence  = "persistence"
)

// Metrics colectores de la aplicación.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	SalesCreated   prometheus.Counter
	SalesRejected  *prometheus.CounterVec
	SaleAmount     prometheus.Histogram
	SaleDuration   prometheus.Histogram
	StockMovements *prometheus.CounterVec
}

// New registra los colectores bajo el namespace dado.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de las peticiones HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SalesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_created_total",
			Help:      "Ventas confirmadas.",
		}),
		SalesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_rejected_total",
			Help:      "Ventas rechazadas por motivo.",
		}, []string{"reason"}),
		SaleAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_amount",
			Help:      "Monto total de las ventas confirmadas.",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 5000, 10000},
		}),
		SaleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sale_transaction_duration_seconds",
			Help:      "Duración de la transacción de venta.",
			Buckets:   prometheus.DefBuckets,
		}),
		StockMovements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Movimientos de stock registrados por tipo.",
		}, []string{"type"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration,
		m.SalesCreated, m.SalesRejected, m.SaleAmount, m.SaleDuration,
		m.StockMovements,
	)
	return m
}

// Handler endpoint de exposición /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry registro propio (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP registra una petición atendida.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SaleCreated registra una venta confirmada.
func (m *Metrics) SaleCreated(total decimal.Decimal, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SalesCreated.Inc()
	m.SaleAmount.Observe(total.InexactFloat64())
	m.SaleDuration.Observe(elapsed.Seconds())
}

// SaleRejected registra una venta abortada.
func (m *Metrics) SaleRejected(reason string) {
	if m == nil {
		return
	}
	m.SalesRejected.WithLabelValues(reason).Inc()
}

// MovementRecorded registra un movimiento confirmado o en curso de confirmación.
func (m *Metrics) MovementRecorded(movementType string) {
	if m == nil {
		return
	}
	m.StockMovements.WithLabelValues(movementType).Inc()
}
