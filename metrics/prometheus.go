package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Yield vault metrics collector

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all vault metrics
type Collector struct {
	// Ledger metrics
	PoolBalance       prometheus.Gauge
	ContractBalance   prometheus.Gauge
	PendingCommission prometheus.Gauge
	UniqueUsers       prometheus.Gauge
	Paused            prometheus.Gauge
	Migrated          prometheus.Gauge

	// Flow metrics
	OperationsTotal     *prometheus.CounterVec
	DepositVolume       prometheus.Counter
	CommissionForwarded prometheus.Counter
	CommissionPending   prometheus.Counter
	RewardsPaid         prometheus.Counter

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec

	// Block metrics
	BlockHeight     prometheus.Gauge
	EndBlockLatency prometheus.Histogram
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector(prometheus.DefaultRegisterer)
	})
	return collector
}

// NewCollector creates a collector registered with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	return newCollector(reg)
}

func newCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{}

	c.PoolBalance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "ledger",
		Name:      "pool_balance",
		Help:      "Sum of live deposit amounts",
	})

	c.ContractBalance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "ledger",
		Name:      "contract_balance",
		Help:      "Value custodied by the vault module account",
	})

	c.PendingCommission = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "ledger",
		Name:      "pending_commission",
		Help:      "Commission awaiting administrator retrieval",
	})

	c.UniqueUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "ledger",
		Name:      "unique_users",
		Help:      "Number of accounts with at least one deposit",
	})

	c.Paused = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "admin",
		Name:      "paused",
		Help:      "1 while the vault is paused",
	})

	c.Migrated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "admin",
		Name:      "migrated",
		Help:      "1 once the vault is migrated",
	})

	c.OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "ops",
			Name:      "total",
			Help:      "Vault operations by type and outcome",
		},
		[]string{"operation", "status"},
	)

	c.DepositVolume = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vault",
		Subsystem: "flow",
		Name:      "deposit_volume",
		Help:      "Gross value deposited",
	})

	c.CommissionForwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vault",
		Subsystem: "flow",
		Name:      "commission_forwarded",
		Help:      "Commission delivered to the treasury",
	})

	c.CommissionPending = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vault",
		Subsystem: "flow",
		Name:      "commission_pending",
		Help:      "Commission parked after a failed treasury transfer",
	})

	c.RewardsPaid = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "vault",
		Subsystem: "flow",
		Name:      "rewards_paid",
		Help:      "Rewards paid out or compounded",
	})

	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "vault",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vault",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message delivery latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100},
		},
		[]string{"channel"},
	)

	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vault",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vault",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"bucket"},
	)

	c.BlockHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "vault",
		Subsystem: "chain",
		Name:      "block_height",
		Help:      "Last processed block height",
	})

	c.EndBlockLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "vault",
		Subsystem: "chain",
		Name:      "endblock_latency_ms",
		Help:      "Vault EndBlocker latency in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50},
	})

	c.registerAll(reg)

	return c
}

// registerAll registers all metrics with reg
func (c *Collector) registerAll(reg prometheus.Registerer) {
	reg.MustRegister(
		c.PoolBalance,
		c.ContractBalance,
		c.PendingCommission,
		c.UniqueUsers,
		c.Paused,
		c.Migrated,

		c.OperationsTotal,
		c.DepositVolume,
		c.CommissionForwarded,
		c.CommissionPending,
		c.RewardsPaid,

		c.WSConnectionsActive,
		c.WSMessagesTotal,
		c.WSMessageLatency,

		c.APIRequestsTotal,
		c.APIRequestLatency,
		c.RateLimitHits,

		c.BlockHeight,
		c.EndBlockLatency,
	)
}

// ============ Recording Helpers ============

// LedgerSnapshot is the subset of ledger state exported as gauges
type LedgerSnapshot struct {
	PoolBalance       float64
	ContractBalance   float64
	PendingCommission float64
	UniqueUsers       uint64
	Paused            bool
	Migrated          bool
}

// RecordLedger sets the ledger gauges from a snapshot
func (c *Collector) RecordLedger(s LedgerSnapshot) {
	c.PoolBalance.Set(s.PoolBalance)
	c.ContractBalance.Set(s.ContractBalance)
	c.PendingCommission.Set(s.PendingCommission)
	c.UniqueUsers.Set(float64(s.UniqueUsers))
	c.Paused.Set(boolGauge(s.Paused))
	c.Migrated.Set(boolGauge(s.Migrated))
}

// RecordOperation records the outcome of a vault operation
func (c *Collector) RecordOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordDeposit records gross deposit volume and the commission outcome
func (c *Collector) RecordDeposit(gross, commission float64, forwarded bool) {
	c.DepositVolume.Add(gross)
	if forwarded {
		c.CommissionForwarded.Add(commission)
	} else {
		c.CommissionPending.Add(commission)
	}
}

// RecordRewards records rewards paid out or compounded
func (c *Collector) RecordRewards(amount float64) {
	c.RewardsPaid.Add(amount)
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a rejected request
func (c *Collector) RecordRateLimitHit(bucket string) {
	c.RateLimitHits.WithLabelValues(bucket).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// RecordEndBlock records block progress and EndBlocker latency
func (c *Collector) RecordEndBlock(blockHeight int64, latencyMs float64) {
	c.BlockHeight.Set(float64(blockHeight))
	c.EndBlockLatency.Observe(latencyMs)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
