// Package observability はゲートウェイのPrometheusメトリクスを提供する。
package observability

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// UpstreamBuckets は上流API呼び出しのレイテンシ用ヒストグラムバケット（50ms〜30s）。
var UpstreamBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

var (
	// RequestsTotal はモードとHTTPステータスごとのゲートウェイ応答数。
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profilegateway_requests_total",
			Help: "Gateway responses",
		},
		[]string{"mode", "status"},
	)

	// UpstreamRequestsTotal は上流APIごとの呼び出し数。statusは上流のHTTPステータス、通信失敗時は "error"。
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profilegateway_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"provider", "status"},
	)

	// UpstreamLatency は上流APIごとの呼び出し時間（秒）。
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "profilegateway_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: UpstreamBuckets,
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		UpstreamRequestsTotal,
		UpstreamLatency,
	)
}

// ObserveResponse はゲートウェイの応答を記録する。
func ObserveResponse(mode string, status int) {
	RequestsTotal.WithLabelValues(mode, strconv.Itoa(status)).Inc()
}

// ObserveUpstream は上流API呼び出しの結果を記録する。statusが0の場合は通信失敗として扱う。
func ObserveUpstream(provider string, status int, seconds float64) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestsTotal.WithLabelValues(provider, label).Inc()
	UpstreamLatency.WithLabelValues(provider).Observe(seconds)
}

// Handler は /metrics 用のGinハンドラを返す。
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
