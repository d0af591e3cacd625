package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 注文の総数（status: created, paid, canceled, refunded, hold_failed, error）
	OrdersTotal *prometheus.CounterVec

	// 掃き出し処理の実行時間
	SweepDuration prometheus.Histogram

	// 掃き出しで回収された期限切れ仮押さえの総数
	ExpiredHoldsTotal prometheus.Counter

	// スケジュール重複で拒否された上映回登録の総数
	ScheduleConflictsTotal prometheus.Counter

	// アクティブな注文数（status: pending, paid）
	ActiveOrders *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		OrdersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_total",
				Help: "Total number of order operations",
			},
			[]string{"status"},
		),
		SweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hold_sweep_duration_seconds",
				Help:    "Time spent sweeping expired seat holds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		ExpiredHoldsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "expired_holds_total",
				Help: "Total number of expired seat holds reclaimed",
			},
		),
		ScheduleConflictsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "schedule_conflicts_total",
				Help: "Total number of showtime registrations rejected due to schedule conflicts",
			},
		),
		ActiveOrders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "active_orders",
				Help: "Current number of active orders",
			},
			[]string{"status"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersTotal,
		m.SweepDuration,
		m.ExpiredHoldsTotal,
		m.ScheduleConflictsTotal,
		m.ActiveOrders,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
