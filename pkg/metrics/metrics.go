package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор метрик сервиса.
// Каждый экземпляр владеет собственным реестром, поэтому New можно вызывать повторно (например, в тестах).
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	SlotOperations      *prometheus.CounterVec
	BulkVisitItems      *prometheus.CounterVec
}

// New создает и регистрирует метрики с префиксом serviceName
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		DBQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "db_query_duration_seconds",
				Help:      "Database query latency by operation.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		SlotOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "slot_operations_total",
				Help:      "Slot reservations and releases by result.",
			},
			[]string{"operation", "result"},
		),
		BulkVisitItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "bulk_visit_items_total",
				Help:      "Visits processed by bulk operations, by operation and result.",
			},
			[]string{"operation", "result"},
		),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.SlotOperations,
		m.BulkVisitItems,
	)

	return m
}

// Register регистрирует дополнительный коллектор (например, статистику пула соединений)
func (m *Metrics) Register(c prometheus.Collector) error {
	return m.registry.Register(c)
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer возвращает реестр метрик (используется в тестах)
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncSlotOperation увеличивает счетчик операций со слотами.
// Безопасен для nil-получателя: сервисы работают и при выключенных метриках.
func (m *Metrics) IncSlotOperation(operation, result string) {
	if m == nil {
		return
	}
	m.SlotOperations.WithLabelValues(operation, result).Inc()
}

// AddBulkVisitItems учитывает обработанные массовой операцией визиты
func (m *Metrics) AddBulkVisitItems(operation, result string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.BulkVisitItems.WithLabelValues(operation, result).Add(float64(count))
}
