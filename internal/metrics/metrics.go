package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maitoguyfit_chat_requests_total",
		Help: "Total de requisições de chat por desfecho",
	}, []string{"outcome"})

	relayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maitoguyfit_relay_request_duration_seconds",
		Help:    "Duração das chamadas ao webhook do N8N",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
)

// Desfechos possíveis de uma requisição de chat.
const (
	OutcomeOK            = "ok"
	OutcomeFallback      = "fallback"
	OutcomeRateLimited   = "rate_limited"
	OutcomeInvalid       = "invalid"
	OutcomeMisconfigured = "misconfigured"
)

// Metrics registra os contadores do serviço.
type Metrics struct{}

// New cria uma instância de Metrics.
func New() *Metrics {
	return &Metrics{}
}

// RecordChatRequest conta uma requisição de chat pelo desfecho.
func (m *Metrics) RecordChatRequest(outcome string) {
	chatRequests.WithLabelValues(outcome).Inc()
}

// RecordRelay registra a duração de uma chamada ao webhook.
func (m *Metrics) RecordRelay(status string, d time.Duration) {
	relayDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Handler expõe o endpoint do Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}
