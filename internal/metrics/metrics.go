// Package metrics exposes Prometheus metrics for wallet operations and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"digital_wallet/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records wallet and HTTP metrics on its own registry.
type Collector struct {
	registry *prometheus.Registry

	// Wallet
	transfers      *prometheus.CounterVec
	transferAmount prometheus.Histogram
	feesCollected  prometheus.Counter
	deposits       prometheus.Counter
	depositAmount  prometheus.Counter

	// HTTP
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector creates a collector with every metric registered under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Total number of transfers by result",
			},
			[]string{"result"},
		),
		transferAmount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_amount",
				Help:      "Nominal amount of completed transfers",
				Buckets:   []float64{1, 10, 25, 50, 100, 250, 1000, 5000, 10000},
			},
		),
		feesCollected: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_fees_total",
				Help:      "Sum of fees debited from senders",
			},
		),
		deposits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deposits_total",
				Help:      "Total number of completed deposits",
			},
		),
		depositAmount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deposit_amount_total",
				Help:      "Sum of deposited amounts",
			},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests per route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
			},
			[]string{"method", "route"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.transfers,
		c.transferAmount,
		c.feesCollected,
		c.deposits,
		c.depositAmount,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// TransferCompleted counts a committed transfer with its nominal amount and burned fee.
func (c *Collector) TransferCompleted(amount, fee domain.Amount) {
	c.transfers.WithLabelValues("completed").Inc()
	c.transferAmount.Observe(amount.Decimal().InexactFloat64())
	c.feesCollected.Add(fee.Decimal().InexactFloat64())
}

// TransferRejected counts a failed transfer under its error kind.
func (c *Collector) TransferRejected(reason string) {
	c.transfers.WithLabelValues(reason).Inc()
}

// DepositCompleted counts a committed deposit and adds its amount to the running total.
func (c *Collector) DepositCompleted(amount domain.Amount) {
	c.deposits.Inc()
	c.depositAmount.Add(amount.Decimal().InexactFloat64())
}

// ObserveHTTP records one served request. route is the matched pattern, not the raw path.
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}
