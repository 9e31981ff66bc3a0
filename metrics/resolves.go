package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var resolveLabels = []string{"api_key_id", "target_type"}

var (
	successResolves *prometheus.CounterVec
	errorResolves   *prometheus.CounterVec
)

func initResolves() {
	successResolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrf",
		Subsystem: "resolver",
		Name:      "resolves",
	}, resolveLabels)
	errorResolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrf",
		Subsystem: "resolver",
		Name:      "errors",
	}, resolveLabels)
}

func SuccessResolve(apiKeyID, targetType string) {
	if Enabled {
		successResolves.WithLabelValues(label(apiKeyID), label(targetType)).Inc()
	}
}

func ErrorResolve(apiKeyID, targetType string) {
	if Enabled {
		errorResolves.WithLabelValues(label(apiKeyID), label(targetType)).Inc()
	}
}

func label(value string) string {
	if value == "" {
		return "-"
	}

	return value
}
