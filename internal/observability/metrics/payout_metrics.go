// Package metrics exposes Prometheus instruments for the payout pipeline.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels metrics with service identity.
type Config struct {
	ServiceName string
	Environment string
}

// PayoutMetrics captures counters and timings for payout batch runs.
type PayoutMetrics struct {
	batchRuns      *prometheus.CounterVec
	batchSellers   *prometheus.CounterVec
	batchDuration  prometheus.Histogram
	payoutsCreated prometheus.Counter
}

var (
	payoutMetricsOnce sync.Once
	payoutMetrics     *PayoutMetrics
)

func Payout() *PayoutMetrics {
	return PayoutWithConfig(Config{})
}

func PayoutWithConfig(cfg Config) *PayoutMetrics {
	payoutMetricsOnce.Do(func() {
		payoutMetrics = newPayoutMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return payoutMetrics
}

func ResetPayoutMetricsForTest() {
	payoutMetricsOnce = sync.Once{}
	payoutMetrics = nil
}

func newPayoutMetrics(registerer prometheus.Registerer, cfg Config) *PayoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "nabdchain"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	batchRuns := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nabdchain_payout_batch_runs_total",
			Help:        "Total payout batch runs by result.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | failed
	)

	batchSellers := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "nabdchain_payout_batch_sellers_total",
			Help:        "Sellers handled per payout batch run by outcome.",
			ConstLabels: constLabels,
		},
		[]string{"outcome"}, // created | skipped | error
	)

	batchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "nabdchain_payout_batch_duration_seconds",
			Help:        "Wall time of a full payout batch run.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		},
	)

	payoutsCreated := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "nabdchain_payouts_created_total",
			Help:        "Total payouts created, batch and single.",
			ConstLabels: constLabels,
		},
	)

	for _, collector := range []prometheus.Collector{batchRuns, batchSellers, batchDuration, payoutsCreated} {
		if err := registerer.Register(collector); err != nil {
			if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
				_ = already
				continue
			}
		}
	}

	return &PayoutMetrics{
		batchRuns:      batchRuns,
		batchSellers:   batchSellers,
		batchDuration:  batchDuration,
		payoutsCreated: payoutsCreated,
	}
}

func (m *PayoutMetrics) ObserveBatchRun(duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	result := "success"
	if failed {
		result = "failed"
	}
	m.batchRuns.WithLabelValues(result).Inc()
	m.batchDuration.Observe(duration.Seconds())
}

func (m *PayoutMetrics) AddBatchSellers(outcome string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.batchSellers.WithLabelValues(outcome).Add(float64(count))
}

func (m *PayoutMetrics) IncPayoutCreated() {
	if m == nil {
		return
	}
	m.payoutsCreated.Inc()
}
