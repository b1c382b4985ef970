// pkg/metrics/collector.go

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "otp_service",
			Name:      "request_duration_seconds",
			Help:      "Time taken to process request",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	MediumOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "otp_service",
			Name:      "medium_operation_duration_seconds",
			Help:      "Time taken for session medium operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"operation", "medium"},
	)

	OTPGenerationTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "generation_total",
			Help:      "Total number of OTPs generated",
		},
	)

	OTPValidationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "validation_total",
			Help:      "Total number of OTP validations by outcome",
		},
		[]string{"outcome"},
	)

	LogoutTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "logout_total",
			Help:      "Total number of session logouts",
		},
	)

	StorageFaultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "storage_faults_total",
			Help:      "Swallowed session storage failures",
		},
		[]string{"op"},
	)

	MediumConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "otp_service",
			Name:      "medium_connection_status",
			Help:      "Current session medium status (1 for reachable, 0 for unreachable)",
		},
	)

	ActiveSessionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "otp_service",
			Name:      "active_sessions",
			Help:      "Number of sessions held by the in-memory medium",
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "otp_service",
			Name:      "cache_evictions_total",
			Help:      "Total number of cache evictions",
		},
	)
)

// RecordMediumOperation records the duration of a session medium operation
func RecordMediumOperation(operation, medium string, start time.Time) {
	MediumOperationDuration.WithLabelValues(operation, medium).Observe(time.Since(start).Seconds())
}

// RecordRequest records the duration of an HTTP request
func RecordRequest(method, endpoint string, status int, start time.Time) {
	duration := time.Since(start).Seconds()
	RequestDuration.WithLabelValues(method, endpoint, strconv.Itoa(status)).Observe(duration)
}

func RecordOTPGeneration() {
	OTPGenerationTotal.Inc()
}

// RecordOTPValidation records a validation outcome ("success" or a failure reason)
func RecordOTPValidation(outcome string) {
	OTPValidationTotal.WithLabelValues(outcome).Inc()
}

func RecordLogout() {
	LogoutTotal.Inc()
}

// RecordStorageFault counts a storage failure that was degraded silently
func RecordStorageFault(op string) {
	StorageFaultsTotal.WithLabelValues(op).Inc()
}

// UpdateMediumConnectionStatus updates the session medium status
func UpdateMediumConnectionStatus(connected bool) {
	if connected {
		MediumConnectionStatus.Set(1)
	} else {
		MediumConnectionStatus.Set(0)
	}
}

// UpdateActiveSessions updates the count of in-memory sessions
func UpdateActiveSessions(count int) {
	ActiveSessionsGauge.Set(float64(count))
}
