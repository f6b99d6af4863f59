package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the crawler.
type Metrics struct {
	Registry           *prometheus.Registry
	CategoriesTotal    prometheus.Counter
	LinksFoundTotal    prometheus.Counter
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    prometheus.Histogram
	RecordsSavedTotal  prometheus.Counter
	RecordsRejectedVec *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	categories := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_categories_total",
			Help: "Total category listing pages processed.",
		},
	)
	linksFound := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_links_found_total",
			Help: "Total candidate product links discovered on listing pages.",
		},
	)
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_requests_total",
			Help: "Total HTTP requests issued by the crawler.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_request_duration_seconds",
			Help:    "HTTP request latency for crawler requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	recordsSaved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_records_saved_total",
			Help: "Total valid wine records handed to the store.",
		},
	)
	recordsRejected := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_records_rejected_total",
			Help: "Total extracted records discarded before persistence.",
		},
		[]string{"reason"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_errors_total",
			Help: "Total crawl errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(categories, linksFound, requests, requestDuration, recordsSaved, recordsRejected, errorsTotal)

	return &Metrics{
		Registry:           registry,
		CategoriesTotal:    categories,
		LinksFoundTotal:    linksFound,
		RequestsTotal:      requests,
		RequestDuration:    requestDuration,
		RecordsSavedTotal:  recordsSaved,
		RecordsRejectedVec: recordsRejected,
		ErrorsTotal:        errorsTotal,
	}
}

// IncCategories counts one processed listing page.
func (m *Metrics) IncCategories() {
	if m == nil {
		return
	}
	m.CategoriesTotal.Inc()
}

// AddLinksFound counts candidate links discovered on a listing page.
func (m *Metrics) AddLinksFound(n int) {
	if m == nil {
		return
	}
	m.LinksFoundTotal.Add(float64(n))
}

// IncRequest counts a request for the given phase (listing or detail).
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncSaved counts a record handed to the store.
func (m *Metrics) IncSaved() {
	if m == nil {
		return
	}
	m.RecordsSavedTotal.Inc()
}

// IncRejected counts a discarded record for a reason label.
func (m *Metrics) IncRejected(reason string) {
	if m == nil {
		return
	}
	m.RecordsRejectedVec.WithLabelValues(reason).Inc()
}

// IncError counts an error for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
