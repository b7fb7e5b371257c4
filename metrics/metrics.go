// Package metrics 定义服务的 Prometheus 指标。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendDuration 是一次推荐（拟合 + 打分 + 排序）的耗时
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamerec_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CandidatesScored 是被打分的候选总数
	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamerec_candidates_scored_total",
			Help: "Total number of candidates scored",
		},
	)

	// EmptyResults 按原因统计空结果
	EmptyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_empty_results_total",
			Help: "Recommendation requests that returned no items, by reason",
		},
		[]string{"reason"}, // "no_owned_games", "not_in_catalog", "no_candidates"
	)

	// CatalogItems 是目录规模
	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamerec_catalog_items",
			Help: "Number of catalog items",
		},
		[]string{"set"}, // "total", "retained"
	)

	// FeatureDimension 是特征维度
	FeatureDimension = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamerec_feature_dimension",
			Help: "Dimension of the catalog feature matrix",
		},
	)

	// CatalogReloads 按结果统计目录重建次数
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_catalog_reloads_total",
			Help: "Catalog rebuilds by result",
		},
		[]string{"result"},
	)

	// UpstreamRequests 统计外部依赖调用（ownership / preference）
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_upstream_requests_total",
			Help: "Calls to external collaborators by outcome",
		},
		[]string{"upstream", "outcome"},
	)

	// CircuitBreakerState 0=closed, 1=half-open, 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamerec_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTPRequests 统计 HTTP 请求
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration 是 HTTP 请求耗时
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamerec_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// ObserveHTTP 记录一次 HTTP 请求。
func ObserveHTTP(route, method string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
