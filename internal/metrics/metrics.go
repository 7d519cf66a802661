package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Lending
	BorrowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "borrows_total",
			Help: "Total successful borrows",
		},
	)
	ReturnsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "returns_total",
			Help: "Total successful returns",
		},
	)
	LendingFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lending_failures_total",
			Help: "Total rejected borrow/return attempts",
		},
	)

	// Audit queue
	AuditQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_queue_depth",
			Help: "Pending async audit writes",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(BorrowsTotal)
	prometheus.MustRegister(ReturnsTotal)
	prometheus.MustRegister(LendingFailures)
	prometheus.MustRegister(AuditQueueDepth)
}
