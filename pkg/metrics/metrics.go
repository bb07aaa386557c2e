package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик сервиса.
// Все методы записи безопасны для nil-получателя: если метрики выключены,
// в компоненты передается nil и вызовы ничего не делают.
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbOpenConns     *prometheus.GaugeVec
	dbInUseConns    *prometheus.GaugeVec
	dbIdleConns     *prometheus.GaugeVec
	dbWaitCount     *prometheus.GaugeVec

	availabilityChecks  *prometheus.CounterVec
	reservationsCreated *prometheus.CounterVec
	pricingFallbacks    *prometheus.CounterVec
	paymentRequests     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в указанном реестре (для тестов - prometheus.NewRegistry())
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		dbQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		dbOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		dbInUseConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		dbIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		dbWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		availabilityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_availability_checks_total",
			Help: "Availability checks by result (available, unavailable)",
		}, []string{"service", "result"}),

		reservationsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_reservations_created_total",
			Help: "Created reservations by initial status",
		}, []string{"service", "status"}),

		pricingFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_pricing_fallbacks_total",
			Help: "Price calculations that fell back to linear pricing",
		}, []string{"service", "reason"}),

		paymentRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rental_payment_requests_total",
			Help: "Checkout session requests to the payment provider by outcome",
		}, []string{"service", "outcome"}),
	}
}

// ObserveHTTPRequest записывает результат HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность SQL запроса
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConns.WithLabelValues(m.serviceName).Set(float64(open))
	m.dbInUseConns.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.dbIdleConns.WithLabelValues(m.serviceName).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(m.serviceName).Set(float64(waitCount))
}

// IncAvailabilityCheck учитывает проверку доступности
func (m *Metrics) IncAvailabilityCheck(available bool) {
	if m == nil {
		return
	}
	result := "unavailable"
	if available {
		result = "available"
	}
	m.availabilityChecks.WithLabelValues(m.serviceName, result).Inc()
}

// IncReservationCreated учитывает созданное бронирование
func (m *Metrics) IncReservationCreated(status string) {
	if m == nil {
		return
	}
	m.reservationsCreated.WithLabelValues(m.serviceName, status).Inc()
}

// IncPricingFallback учитывает откат на линейную цену
func (m *Metrics) IncPricingFallback(reason string) {
	if m == nil {
		return
	}
	m.pricingFallbacks.WithLabelValues(m.serviceName, reason).Inc()
}

// IncPaymentRequest учитывает обращение к платежному провайдеру
func (m *Metrics) IncPaymentRequest(outcome string) {
	if m == nil {
		return
	}
	m.paymentRequests.WithLabelValues(m.serviceName, outcome).Inc()
}
