package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	MissionCompletedTotal      = "mission_completed_total"
	WalletConnectTotal         = "wallet_connect_total"
	RateLimitedTotal           = "rate_limited_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		MissionCompletedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MissionCompletedTotal,
			Help: "Count of missions completed, by kind",
		}, []string{"kind"}),
		WalletConnectTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: WalletConnectTotal,
			Help: "Count of wallet connect attempts, by result",
		}, []string{"result"}),
		RateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: RateLimitedTotal,
			Help: "Count of requests rejected by the rate limiter",
		}, []string{"path"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
